package config

const (
	defaultOutputDirName         = "extracted_assets"
	defaultHistoryPath           = "~/.roblox_asset_extractor/extracted_history.json"
	defaultLogDir                = "~/.local/share/assetcarver/logs"
	defaultLedgerFile            = "runs.db"
	defaultClassification        = "type"
	defaultMinFileSize           = 10
	defaultMinPayloadSize        = 10
	defaultMaxDecompressedMiB    = 512
	defaultDequeueTimeoutSeconds = 5
	defaultProgressIntervalMS    = 500
	defaultStatsIntervalMS       = 100
	defaultFFprobeBinary         = "ffprobe"
	defaultProbeTimeoutSeconds   = 15
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"

	// MaxWorkers caps the automatic worker count.
	MaxWorkers = 32
)

// DefaultTypes lists every supported asset kind in detection order.
func DefaultTypes() []string {
	return []string{"ogg", "png", "webp", "ktx", "rbxm"}
}

// DefaultExcludeDirs lists directories owned by this tool or its downstream
// consumers that must never be rescanned.
func DefaultExcludeDirs() []string {
	return []string{defaultOutputDirName, "extracted_mp3", "extracted_oggs"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDirName: defaultOutputDirName,
			HistoryPath:   defaultHistoryPath,
			LogDir:        defaultLogDir,
		},
		Extraction: Extraction{
			Types:              DefaultTypes(),
			Classification:     defaultClassification,
			MinFileSize:        defaultMinFileSize,
			MinPayloadSize:     defaultMinPayloadSize,
			ExcludeDirs:        DefaultExcludeDirs(),
			Decompress:         true,
			MaxDecompressedMiB: defaultMaxDecompressedMiB,
			RecordDuplicates:   true,
		},
		Workers: Workers{
			DequeueTimeoutSeconds: defaultDequeueTimeoutSeconds,
			ProgressIntervalMS:    defaultProgressIntervalMS,
			StatsIntervalMS:       defaultStatsIntervalMS,
		},
		Probe: Probe{
			FFprobeBinary:  defaultFFprobeBinary,
			TimeoutSeconds: defaultProbeTimeoutSeconds,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
