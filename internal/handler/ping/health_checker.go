package ping

import "context"

//go:generate mockgen -destination=../../mocks/health_checker_mock.go -package=mocks . HealthChecker

type HealthChecker interface {
	Ping(ctx context.Context) error
}
