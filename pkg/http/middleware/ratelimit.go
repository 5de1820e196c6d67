package middleware

import (
	applogger "SentimentPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Allower decides whether a request identified by key may proceed.
type Allower interface {
	Allow(key string) bool
}

// RateLimit keys requests by client IP and hands rejected ones to onLimit.
func RateLimit(a Allower, l *applogger.Logger, onLimit echo.HandlerFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if !a.Allow(ip) {
				if l != nil {
					l.Warn("rate limited", applogger.String("remote", ip), applogger.String("route", c.Path()))
				}
				return onLimit(c)
			}
			return next(c)
		}
	}
}
