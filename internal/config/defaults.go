package config

const (
	defaultOutputDir            = "~/Pictures/photowall"
	defaultRows                 = 3
	defaultColumns              = 3
	defaultGap                  = 10
	defaultPadding              = 20
	defaultBackground           = "#ffffff"
	defaultMaxWidth             = 1200
	defaultAlignment            = "center"
	defaultFormat               = "png"
	defaultQuality              = 80
	defaultThreshold            = 10
	defaultCompressionLevel     = 9
	defaultWorkers              = 1
	defaultSortKey              = "nameAsc"
	defaultSortLocale           = "und"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultNotifyRequestTimeout = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
		},
		Grid: Grid{
			Rows:       defaultRows,
			Columns:    defaultColumns,
			RowGap:     defaultGap,
			ColumnGap:  defaultGap,
			PaddingX:   defaultPadding,
			PaddingY:   defaultPadding,
			Background: defaultBackground,
			MaxWidth:   defaultMaxWidth,
			Alignment:  defaultAlignment,
		},
		Export: Export{
			Format:           defaultFormat,
			Quality:          defaultQuality,
			Threshold:        defaultThreshold,
			CompressionLevel: defaultCompressionLevel,
			Workers:          defaultWorkers,
		},
		Sort: Sort{
			Key:    defaultSortKey,
			Locale: defaultSortLocale,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
	}
}
