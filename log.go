package depot

import (
	"github.com/rs/zerolog"
)

func loadComponentIntoArrayLogger(reg *Registry, i int, arrayLogger *zerolog.Array) *zerolog.Array {
	dictLogger := zerolog.Dict()
	dictLogger = dictLogger.Uint32("component_id", reg.rows[i])
	dictLogger = dictLogger.Str("component_name", reg.components[i].ValueType().String())
	dictLogger = dictLogger.Int("size", reg.sets[i].Size())
	return arrayLogger.Dict(dictLogger)
}

// LogRegistry logs the registered components, their storage sizes and entity counts.
func LogRegistry(logger *zerolog.Logger, reg *Registry, level zerolog.Level) {
	zeroLoggerEvent := logger.WithLevel(level)
	zeroLoggerEvent.Int("total_components", len(reg.components))
	arrayLogger := zerolog.Arr()
	for i := range reg.components {
		arrayLogger = loadComponentIntoArrayLogger(reg, i, arrayLogger)
	}
	zeroLoggerEvent.Array("components", arrayLogger).
		Int("live_entities", reg.Size()).
		Int("capacity", reg.Capacity()).
		Bool("locked", reg.Locked()).
		Send()
}

// LogEntity logs an entity and the components it holds. Stale handles are logged as such.
func LogEntity(logger *zerolog.Logger, reg *Registry, e Entity, level zerolog.Level) {
	zeroLoggerEvent := logger.WithLevel(level).Object("entity", e)
	if !reg.Valid(e) {
		zeroLoggerEvent.Bool("stale", true).Send()
		return
	}
	arrayLogger := zerolog.Arr()
	for i, set := range reg.sets {
		if set.Contains(e) {
			arrayLogger = loadComponentIntoArrayLogger(reg, i, arrayLogger)
		}
	}
	zeroLoggerEvent.Array("components", arrayLogger).Send()
}
