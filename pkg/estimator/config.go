package estimator

// Config holds the process-wide physiological constants shared by all
// methods. Units:
//   - BRMin/BRMax: breaths per minute (normal resting bounds)
//   - VLFLow, LFLow, LFHigh, HFLow, HFHigh: Hz (spectral band edges)
//   - RMSSDLow/RMSSDHigh: milliseconds (expected resting RMSSD band)
//   - SampleRate: Hz (uniform resampling rate for spectral analysis)
//   - SegmentLen: samples (Welch transform length)
//   - OutlierMAD: median-absolute-deviation multiple for outlier rejection
//
// A Config is fixed at construction and never mutated at runtime.
type Config struct {
	BRMin float64
	BRMax float64

	VLFLow float64
	LFLow  float64
	LFHigh float64
	HFLow  float64
	HFHigh float64

	RMSSDLow  float64
	RMSSDHigh float64

	SampleRate float64
	SegmentLen int
	OutlierMAD float64
}

func defaultConfig() *Config {
	return &Config{
		BRMin: 12.0, // breaths/min, resting lower bound
		BRMax: 20.0, // breaths/min, resting upper bound

		VLFLow: 0.0033, // Hz
		LFLow:  0.04,   // Hz
		LFHigh: 0.15,   // Hz (also the HF lower edge)
		HFLow:  0.15,   // Hz
		HFHigh: 0.4,    // Hz

		RMSSDLow:  10.0, // ms
		RMSSDHigh: 50.0, // ms

		SampleRate: 4.0,
		SegmentLen: 256,
		OutlierMAD: 3.5,
	}
}

// NewConfig returns the defaults with positive fields of cfg overriding
// them. A nil cfg yields the defaults unchanged. Band and range edges are
// re-ordered defensively so lower <= upper always holds.
func NewConfig(cfg *Config) *Config {
	base := defaultConfig()
	if cfg == nil {
		return base
	}

	merged := *base
	if cfg.BRMin > 0 {
		merged.BRMin = cfg.BRMin
	}
	if cfg.BRMax > 0 {
		merged.BRMax = cfg.BRMax
	}
	if cfg.VLFLow > 0 {
		merged.VLFLow = cfg.VLFLow
	}
	if cfg.LFLow > 0 {
		merged.LFLow = cfg.LFLow
	}
	if cfg.LFHigh > 0 {
		merged.LFHigh = cfg.LFHigh
	}
	if cfg.HFLow > 0 {
		merged.HFLow = cfg.HFLow
	}
	if cfg.HFHigh > 0 {
		merged.HFHigh = cfg.HFHigh
	}
	if cfg.RMSSDLow > 0 {
		merged.RMSSDLow = cfg.RMSSDLow
	}
	if cfg.RMSSDHigh > 0 {
		merged.RMSSDHigh = cfg.RMSSDHigh
	}
	if cfg.SampleRate > 0 {
		merged.SampleRate = cfg.SampleRate
	}
	if cfg.SegmentLen > 0 {
		merged.SegmentLen = cfg.SegmentLen
	}
	if cfg.OutlierMAD > 0 {
		merged.OutlierMAD = cfg.OutlierMAD
	}

	if merged.BRMax < merged.BRMin {
		merged.BRMin, merged.BRMax = merged.BRMax, merged.BRMin
	}
	if merged.RMSSDHigh < merged.RMSSDLow {
		merged.RMSSDLow, merged.RMSSDHigh = merged.RMSSDHigh, merged.RMSSDLow
	}
	return &merged
}
