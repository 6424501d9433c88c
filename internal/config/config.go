// internal/config/config.go
package config

// Config is the optional YAML file of bootcom. Every field may be
// omitted; Normalize fills defaults. Command-line flags override it.
type Config struct {
	Serial SerialConfig `yaml:"serial"`
	Kernel KernelConfig `yaml:"kernel"`
	Timing TimingConfig `yaml:"timing"`
	Log    LogConfig    `yaml:"log"`
}

// ---- SERIAL ----

type SerialConfig struct {
	// Device is the serial path. Empty means select interactively.
	Device string `yaml:"device"`

	BaudRate    int    `yaml:"baud_rate"`
	DataBits    int    `yaml:"data_bits"`
	StopBits    int    `yaml:"stop_bits"`
	Parity      string `yaml:"parity"`       // none | odd | even
	FlowControl string `yaml:"flow_control"` // none | soft | hard
	Backend     string `yaml:"backend"`      // bugst | goburrow

	// ReadTimeoutMs is the driver read timeout of the background reader.
	ReadTimeoutMs int `yaml:"read_timeout_ms"`
}

// ---- KERNEL ----

type KernelConfig struct {
	// Image is the kernel file. Empty means kernel8.img in Dir.
	Image string `yaml:"image"`

	// Dir is searched for *.img candidates when Image is missing.
	Dir string `yaml:"dir"`
}

// ---- TIMING ----

type TimingConfig struct {
	WaitIntervalMs   int `yaml:"wait_interval_ms"`
	SelectIntervalMs int `yaml:"select_interval_ms"`
	CancelPollMs     int `yaml:"cancel_poll_ms"`

	OpenAttempts  int `yaml:"open_attempts"`
	OpenRetryMs   int `yaml:"open_retry_ms"`
	IdlePollMs    int `yaml:"idle_poll_ms"`
	ReadChunkSize int `yaml:"read_chunk_size"`

	AckAttempts   int `yaml:"ack_attempts"`
	AckIntervalMs int `yaml:"ack_interval_ms"`
	ChunkSize     int `yaml:"chunk_size"`
	WriteRetryMs  int `yaml:"write_retry_ms"`
	PushRetryMs   int `yaml:"push_retry_ms"`
}

// ---- LOG ----

type LogConfig struct {
	// Level is the base zerolog level; each -v lowers it by one.
	Level string `yaml:"level"`
}
