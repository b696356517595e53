package services

import (
	"climate-feed/internal/aggregate"
)

// Per-series aggregation function sets. Each daily series built by the
// preparation step runs through one of these; every Func emits its
// fields under its own family tag ("prec24.val_tot", "tmxgg.val_x").
// Tags follow the archive naming of the regional climate databases
// these records feed.

func maxTemperatureFuncs() []aggregate.Func {
	return []aggregate.Func{
		aggregate.NewFunc("tmxgg", aggregate.Adapt(aggregate.MaxTemperature)),
		aggregate.NewFunc("cl_tmxgg", aggregate.Adapt(aggregate.TemperatureClasses)),
		aggregate.NewFunc("ice_days", aggregate.Adapt(aggregate.IceDays)),
		aggregate.NewFunc("summer_days", aggregate.Adapt(aggregate.SummerDays)),
	}
}

func minTemperatureFuncs() []aggregate.Func {
	return []aggregate.Func{
		aggregate.NewFunc("tmngg", aggregate.Adapt(aggregate.MinTemperature)),
		aggregate.NewFunc("cl_tmngg", aggregate.Adapt(aggregate.TemperatureClasses)),
		aggregate.NewFunc("frost_days", aggregate.Adapt(aggregate.FrostDays)),
		aggregate.NewFunc("tropical_nights", aggregate.Adapt(aggregate.TropicalNights)),
	}
}

func meanTemperatureFuncs() []aggregate.Func {
	return []aggregate.Func{
		aggregate.NewFunc("tmdgg", aggregate.Adapt(aggregate.MeanTemperature)),
	}
}

func degreeDayFuncs() []aggregate.Func {
	return []aggregate.Func{
		aggregate.NewFunc("grgg", aggregate.Adapt(aggregate.DegreeDays)),
	}
}

func dailyPrecipFuncs() []aggregate.Func {
	return []aggregate.Func{
		aggregate.NewPrecipFunc("prec24", aggregate.Adapt(aggregate.PrecipTotal)),
		aggregate.NewPrecipFunc("cl_prec24", aggregate.Adapt(aggregate.PrecipClasses)),
		aggregate.NewPrecipFunc("prs_prec24", aggregate.Adapt(aggregate.PrecipPersistence)),
	}
}

func shortPrecipFuncs(tag string) []aggregate.Func {
	return []aggregate.Func{
		aggregate.NewPrecipFunc(tag, aggregate.Adapt(aggregate.PrecipShortMax)),
	}
}

func shortPrecipClassFuncs(tag string) []aggregate.Func {
	return []aggregate.Func{
		aggregate.NewPrecipFunc(tag, aggregate.Adapt(aggregate.PrecipShortClasses)),
	}
}

func windMeanFuncs() []aggregate.Func {
	return []aggregate.Func{
		aggregate.NewFunc("vntmd", aggregate.Adapt(aggregate.WindMean)),
	}
}

func windGustFuncs() []aggregate.Func {
	return []aggregate.Func{
		aggregate.NewFunc("vntmxgg", aggregate.Adapt(aggregate.WindGust)),
	}
}

func windFrequencyFuncs() []aggregate.Func {
	return []aggregate.Func{
		aggregate.NewFunc("vnt", aggregate.Adapt(aggregate.WindFrequency)),
	}
}

func humidityFuncs() []aggregate.Func {
	return []aggregate.Func{
		aggregate.NewFunc("umdgg", aggregate.Adapt(aggregate.RelativeHumidity)),
	}
}

func bioclimateFuncs() []aggregate.Func {
	return []aggregate.Func{
		aggregate.NewFunc("ifs", aggregate.Adapt(aggregate.ScharlauIndex)),
		aggregate.NewFunc("ifu", aggregate.Adapt(aggregate.HumidColdIndex)),
		aggregate.NewFunc("dry_cold_days", aggregate.Adapt(aggregate.DryColdDays)),
		aggregate.NewFunc("humid_cold_days", aggregate.Adapt(aggregate.HumidColdDays)),
		aggregate.NewFunc("dry_heat_days", aggregate.Adapt(aggregate.DryHeatDays)),
		aggregate.NewFunc("humid_heat_days", aggregate.Adapt(aggregate.HumidHeatDays)),
	}
}

func pressureFuncs() []aggregate.Func {
	return []aggregate.Func{
		aggregate.NewFunc("press", aggregate.Adapt(aggregate.Pressure)),
	}
}

func scalarFuncs(tag string, fn aggregate.AggregateFunc) []aggregate.Func {
	return []aggregate.Func{aggregate.NewFunc(tag, fn)}
}
