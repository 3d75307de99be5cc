package service

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

type loggingMiddleware struct {
	logger log.Logger    `json:""`
	next   AddsvcService `json:""`
}

// LoggingMiddleware takes a logger as a dependency
// and returns a ServiceMiddleware.
func LoggingMiddleware(logger log.Logger) Middleware {
	return func(next AddsvcService) AddsvcService {
		return loggingMiddleware{logger, next}
	}
}

func (lm loggingMiddleware) Add(ctx context.Context, num1 Operand, num2 Operand) (rs float64, err error) {
	defer func(begin time.Time) {
		l := level.Info(lm.logger)
		if err != nil {
			l = level.Warn(lm.logger)
		}
		l.Log("method", "Add", "num1", num1, "num2", num2, "rs", rs, "err", err, "took", time.Since(begin))
	}(time.Now())

	return lm.next.Add(ctx, num1, num2)
}
