// Package logging builds the service logger: structured records flow
// through a zap core so output is consistent with the rest of the fleet.
package logging

import (
	"encoding/json"
	"fmt"

	"github.com/Gobusters/ectologger"
	"go.uber.org/zap"
)

// New creates the service logger backed by a zap core. PrettyLogs selects
// the development console encoder.
func New(appName string, prettyLogs bool) (ectologger.Logger, *zap.Logger, error) {
	var zl *zap.Logger
	var err error
	if prettyLogs {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, err
	}
	zl = zl.Named(appName)

	sink := zl.WithOptions(zap.AddCallerSkip(1))
	logger := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		record, err := json.Marshal(msg)
		if err != nil {
			sink.Info(fmt.Sprintf("%+v", msg))
			return
		}
		sink.Info(string(record))
	})

	return logger, zl, nil
}
