package logger

import (
	"os"

	"go.uber.org/zap"
)

// L is the process-wide sugared logger. Defaults to a no-op so packages can
// log before Init (and so tests don't have to bother).
var L = zap.NewNop().Sugar()

// Init builds the real logger. Call once from main.
func Init() {
	var base *zap.Logger
	var err error
	if os.Getenv("APP_ENV") == "production" {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	L = base.Sugar()
}
