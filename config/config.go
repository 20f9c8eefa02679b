package config

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/ProjectsTask/EasySwapMarket/common/utils"
	logging "github.com/ProjectsTask/EasySwapMarket/logger"
	"github.com/ProjectsTask/EasySwapMarket/market/bps"
	"github.com/ProjectsTask/EasySwapMarket/market/errs"
	"github.com/ProjectsTask/EasySwapMarket/market/exchange"
	"github.com/ProjectsTask/EasySwapMarket/market/fee"
	"github.com/ProjectsTask/EasySwapMarket/stores/gdb"
)

// EnvPrefix 环境变量前缀, 如 EASYSWAP_MARKET_OWNER
const EnvPrefix = "EASYSWAP"

// Config 全局配置
type Config struct {
	Api     Api             `toml:"api" mapstructure:"api" json:"api"`
	Log     logging.LogConf `toml:"log" mapstructure:"log" json:"log"`
	DB      *gdb.Config     `toml:"db" mapstructure:"db" json:"db"` // 可选, 未配置时不记录活动
	Monitor Monitor         `toml:"monitor" mapstructure:"monitor" json:"monitor"`
	Market  Market          `toml:"market" mapstructure:"market" json:"market"`
	Keeper  Keeper          `toml:"keeper" mapstructure:"keeper" json:"keeper"`
}

// Api HTTP 服务配置
type Api struct {
	Port    string `toml:"port" mapstructure:"port" json:"port"` // 如 ":9000"
	MaxNum  int    `toml:"max_num" mapstructure:"max_num" json:"max_num"`
	Disable bool   `toml:"disable" mapstructure:"disable" json:"disable"`
}

// Monitor 监控配置
type Monitor struct {
	PprofEnable bool  `toml:"pprof_enable" mapstructure:"pprof_enable" json:"pprof_enable"`
	PprofPort   int64 `toml:"pprof_port" mapstructure:"pprof_port" json:"pprof_port"`
}

// Market 交易所配置, 费率均为基点
type Market struct {
	Owner               string        `toml:"owner" mapstructure:"owner" json:"owner"`
	Address             string        `toml:"address" mapstructure:"address" json:"address"`
	FeeSink             string        `toml:"fee_sink" mapstructure:"fee_sink" json:"fee_sink"`
	InitialSaleFee      uint64        `toml:"initial_sale_fee" mapstructure:"initial_sale_fee" json:"initial_sale_fee"`
	MakerFee            uint64        `toml:"maker_fee" mapstructure:"maker_fee" json:"maker_fee"`
	TakerFee            uint64        `toml:"taker_fee" mapstructure:"taker_fee" json:"taker_fee"`
	MasterKeyCut        uint64        `toml:"master_key_cut" mapstructure:"master_key_cut" json:"master_key_cut"`
	FeeCeiling          uint64        `toml:"fee_ceiling" mapstructure:"fee_ceiling" json:"fee_ceiling"`
	RoyaltyCeiling      uint64        `toml:"royalty_ceiling" mapstructure:"royalty_ceiling" json:"royalty_ceiling"`
	MinDuration         time.Duration `toml:"min_duration" mapstructure:"min_duration" json:"min_duration"`
	MaxDuration         time.Duration `toml:"max_duration" mapstructure:"max_duration" json:"max_duration"`
	PullPaymentFallback bool          `toml:"pull_payment_fallback" mapstructure:"pull_payment_fallback" json:"pull_payment_fallback"`
	MinTip              string        `toml:"min_tip" mapstructure:"min_tip" json:"min_tip"` // ether, 为空时使用默认值
}

// Keeper 过期清理和分红任务配置
type Keeper struct {
	Enable           bool          `toml:"enable" mapstructure:"enable" json:"enable"`
	Address          string        `toml:"address" mapstructure:"address" json:"address"` // 记录在日志和事件中的调用方
	SweepInterval    time.Duration `toml:"sweep_interval" mapstructure:"sweep_interval" json:"sweep_interval"`
	BatchSize        int           `toml:"batch_size" mapstructure:"batch_size" json:"batch_size"`
	DividendInterval time.Duration `toml:"dividend_interval" mapstructure:"dividend_interval" json:"dividend_interval"` // 0 表示不自动分红
}

// Validate 检查地址和费率
func (m *Market) Validate() error {
	for _, a := range []struct {
		name  string
		value string
	}{
		{"owner", m.Owner},
		{"address", m.Address},
		{"fee_sink", m.FeeSink},
	} {
		if !common.IsHexAddress(a.value) || common.HexToAddress(a.value) == (common.Address{}) {
			return errs.ErrInvalidAddress.WithMessage("market.%s %q", a.name, a.value)
		}
	}
	for _, p := range []struct {
		name  string
		value uint64
	}{
		{"initial_sale_fee", m.InitialSaleFee},
		{"maker_fee", m.MakerFee},
		{"taker_fee", m.TakerFee},
		{"master_key_cut", m.MasterKeyCut},
		{"fee_ceiling", m.FeeCeiling},
		{"royalty_ceiling", m.RoyaltyCeiling},
	} {
		if p.value > bps.Denominator {
			return errs.ErrInvalidPercent.WithMessage("market.%s %d above 10000", p.name, p.value)
		}
	}
	return nil
}

// ExchangeConfig 转换为交易所配置, 同时完成交易所层面的校验
func (m *Market) ExchangeConfig() (exchange.Config, error) {
	if err := m.Validate(); err != nil {
		return exchange.Config{}, err
	}
	cfg := exchange.Config{
		Owner:   common.HexToAddress(m.Owner),
		Address: common.HexToAddress(m.Address),
		FeeSink: common.HexToAddress(m.FeeSink),
		Fees: fee.Config{
			InitialSaleFee: bps.Bps(m.InitialSaleFee),
			MakerFee:       bps.Bps(m.MakerFee),
			TakerFee:       bps.Bps(m.TakerFee),
			MasterKeyCut:   bps.Bps(m.MasterKeyCut),
		},
		FeeCeiling:          bps.Bps(m.FeeCeiling),
		RoyaltyCeiling:      bps.Bps(m.RoyaltyCeiling),
		MinDuration:         m.MinDuration,
		MaxDuration:         m.MaxDuration,
		PullPaymentFallback: m.PullPaymentFallback,
	}
	if m.MinTip != "" {
		minTip, err := utils.EtherToWei(m.MinTip)
		if err != nil {
			return exchange.Config{}, errs.ErrInvalidConfig.WithMessage("market.min_tip %q", m.MinTip)
		}
		cfg.MinTip = minTip
	}
	if err := cfg.Validate(); err != nil {
		return exchange.Config{}, err
	}
	return cfg, nil
}

// KeeperAddress 未配置时使用交易所 owner
func (c *Config) KeeperAddress() common.Address {
	if common.IsHexAddress(c.Keeper.Address) {
		return common.HexToAddress(c.Keeper.Address)
	}
	return common.HexToAddress(c.Market.Owner)
}

// setEnv 环境变量覆盖, 如 EASYSWAP_MARKET_TAKER_FEE
func setEnv(v *viper.Viper) {
	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

// UnmarshalConfig 加载并解析指定路径的配置文件
func UnmarshalConfig(configFilePath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configFilePath)
	v.SetConfigType("toml")
	setEnv(v)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed on read config %s", configFilePath)
	}
	return unmarshal(v)
}

// UnmarshalCmdConfig 解析 cobra 初始化时已经设置好路径的全局 viper
func UnmarshalCmdConfig() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "failed on read config")
	}
	return unmarshal(viper.GetViper())
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, errors.Wrap(err, "failed on unmarshal config")
	}
	if c.Keeper.BatchSize <= 0 {
		c.Keeper.BatchSize = 100
	}
	if c.Keeper.SweepInterval <= 0 {
		c.Keeper.SweepInterval = time.Minute
	}
	return &c, nil
}

// SetupCmdEnv 供 cobra 根命令使用
func SetupCmdEnv() {
	setEnv(viper.GetViper())
}
