package dataframe

import (
	"fmt"
	"time"

	"github.com/paveg/canopy/internal/config"
	"github.com/paveg/canopy/internal/logging"
	"github.com/paveg/canopy/internal/monitoring"
	"go.uber.org/zap"
)

// observe reports a finished engine operation to the global metrics
// collector and the debug log. errp may be nil.
func observe(op string, start time.Time, rows int, errp *error, fields ...zap.Field) {
	var err error
	if errp != nil {
		err = *errp
	}
	elapsed := time.Since(start)
	monitoring.ObserveGlobal(op, rows, elapsed, err)

	if ce := logging.Get().Check(zap.DebugLevel, "dataframe operation"); ce != nil {
		fields = append(fields,
			zap.String("op", op),
			zap.Int("rows", rows),
			zap.Duration("elapsed", elapsed),
		)
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		ce.Write(fields...)
	}
}

// uniqueName returns base, or base followed by the smallest positive
// counter for which taken reports false.
func uniqueName(base string, taken func(string) bool) string {
	if !taken(base) {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s%d", base, i)
		if !taken(name) {
			return name
		}
	}
}

func engineConfig() config.Config {
	return config.GetGlobalConfig()
}
