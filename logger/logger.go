// Package logger 日志配置
package logger

const (
	ModeConsole = "console"
	ModeFile    = "file"
)

// LogConf 日志配置
type LogConf struct {
	ServiceName string `toml:"service_name" mapstructure:"service_name" json:"service_name"`
	Mode        string `toml:"mode" mapstructure:"mode" json:"mode"`    // console 或 file
	Path        string `toml:"path" mapstructure:"path" json:"path"`    // file 模式下的日志目录
	Level       string `toml:"level" mapstructure:"level" json:"level"` // debug, info, warn, error
	Compress    bool   `toml:"compress" mapstructure:"compress" json:"compress"`
	KeepDays    int    `toml:"keep_days" mapstructure:"keep_days" json:"keep_days"`
	MaxSize     int    `toml:"max_size" mapstructure:"max_size" json:"max_size"` // 单个文件大小上限 (MB)
}
