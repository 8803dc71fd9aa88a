package classify

var descriptions = map[string]string{
	"audio_ogg":    "OGG audio files",
	"images":       "PNG and WEBP image files",
	"textures_ktx": "KTX texture files",
	"models_rbxm":  "RBXM model files",

	"ogg_audio":    "OGG audio files",
	"png_images":   "PNG image files",
	"webp_images":  "WEBP image files",
	"ktx_textures": "KTX texture files",
	"rbxm_models":  "RBXM model files",

	"ultra_small_0-50KB": "very small files (0-50KB)",
	"small_50-200KB":     "small files (50KB-200KB)",
	"medium_200KB-1MB":   "medium files (200KB-1MB)",
	"large_1MB-5MB":      "large files (1MB-5MB)",
	"ultra_large_5MB+":   "very large files (5MB+)",

	"ultra_short_0-5s": "sound effects, notification sounds (0-5 seconds)",
	"short_5-15s":      "short effects, alerts (5-15 seconds)",
	"medium_15-60s":    "loop music, short BGM (15-60 seconds)",
	"long_60-300s":     "full music, long BGM (1-5 minutes)",
	"ultra_long_300s+": "long music, voice (5+ minutes)",
}

// Describe returns a human description of a category directory.
func Describe(category string) string {
	return descriptions[category]
}
