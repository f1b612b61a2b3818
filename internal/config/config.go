package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nacos-group/nacos-sdk-go/v2/clients"
	"github.com/nacos-group/nacos-sdk-go/v2/common/constant"
	"github.com/nacos-group/nacos-sdk-go/v2/vo"
	clientv3 "go.etcd.io/etcd/client/v3"
	"gopkg.in/yaml.v3"
)

// Config 服务配置
// 注意：时间字段统一使用毫秒时间戳

type Config struct {
	Server struct {
		Port     int    `yaml:"port" json:"port"`
		LogLevel string `yaml:"log_level" json:"log_level"`
	} `yaml:"server" json:"server"`

	Database struct {
		DSN                string `yaml:"dsn" json:"dsn"`
		MaxOpenConns       int    `yaml:"max_open_conns" json:"max_open_conns"`
		MaxIdleConns       int    `yaml:"max_idle_conns" json:"max_idle_conns"`
		ConnMaxLifetimeSec int    `yaml:"conn_max_lifetime_sec" json:"conn_max_lifetime_sec"`
	} `yaml:"database" json:"database"`

	Redis struct {
		Addr     string `yaml:"addr" json:"addr"`
		Password string `yaml:"password" json:"password"`
		DB       int    `yaml:"db" json:"db"`
	} `yaml:"redis" json:"redis"`

	RocketMQ struct {
		Endpoint      string `yaml:"endpoint" json:"endpoint"`
		ProducerGroup string `yaml:"producer_group" json:"producer_group"`
		Topics        string `yaml:"topics" json:"topics"`
		AccessKey     string `yaml:"access_key" json:"access_key"`
		SecretKey     string `yaml:"secret_key" json:"secret_key"`
	} `yaml:"rocketmq" json:"rocketmq"`

	Observability struct {
		EnableProm bool `yaml:"enable_prom" json:"enable_prom"`
	} `yaml:"observability" json:"observability"`

	Auth struct {
		DemoMode bool `yaml:"demo_mode" json:"demo_mode"` // 演示模式：从请求头直接取账户
		JWT      struct {
			Secret         string `yaml:"secret" json:"secret"`
			AccessTokenTTL int    `yaml:"access_token_ttl" json:"access_token_ttl"` // 秒
			Issuer         string `yaml:"issuer" json:"issuer"`
		} `yaml:"jwt" json:"jwt"`
		Admin struct {
			Enabled bool   `yaml:"enabled" json:"enabled"`
			Token   string `yaml:"token" json:"token"`
		} `yaml:"admin" json:"admin"`
		Oracle struct {
			Token string `yaml:"token" json:"token"` // 回调端点的共享令牌
		} `yaml:"oracle" json:"oracle"`
	} `yaml:"auth" json:"auth"`

	CORS struct {
		Enabled          bool     `yaml:"enabled" json:"enabled"`
		AllowedOrigins   []string `yaml:"allowed_origins" json:"allowed_origins"`
		AllowedMethods   []string `yaml:"allowed_methods" json:"allowed_methods"`
		AllowedHeaders   []string `yaml:"allowed_headers" json:"allowed_headers"`
		ExposedHeaders   []string `yaml:"exposed_headers" json:"exposed_headers"`
		AllowCredentials bool     `yaml:"allow_credentials" json:"allow_credentials"`
		MaxAge           int      `yaml:"max_age" json:"max_age"`
	} `yaml:"cors" json:"cors"`

	// 彩票业务参数
	Lottery struct {
		AdminAccount       string `yaml:"admin_account" json:"admin_account"`
		PoolAccount        string `yaml:"pool_account" json:"pool_account"`
		DigitCount         int    `yaml:"digit_count" json:"digit_count"`
		DigitRange         int    `yaml:"digit_range" json:"digit_range"`
		MaxTicketsPerBatch int    `yaml:"max_tickets_per_batch" json:"max_tickets_per_batch"`
		UseMySQLLedger     bool   `yaml:"use_mysql_ledger" json:"use_mysql_ledger"`
		Oracle             struct {
			ServerSeed  string `yaml:"server_seed" json:"server_seed"`
			DelayMinMs  int    `yaml:"delay_min_ms" json:"delay_min_ms"`
			DelayMaxMs  int    `yaml:"delay_max_ms" json:"delay_max_ms"`
			CallbackURL string `yaml:"callback_url" json:"callback_url"` // 为空则走进程内交付
		} `yaml:"oracle" json:"oracle"`
	} `yaml:"lottery" json:"lottery"`
}

// Load 依次尝试 Nacos、Etcd、本地文件三种配置来源
// 环境变量：
//   - NACOS_SERVER_ADDR / NACOS_DATA_ID / NACOS_NAMESPACE / NACOS_GROUP
//   - ETCD_ENDPOINTS / ETCD_CONFIG_KEY
//   - CONFIG_FILE（默认 config/dev.json）
func Load(ctx context.Context) (*Config, error) {
	if strings.TrimSpace(os.Getenv("NACOS_SERVER_ADDR")) != "" {
		cfg, err := loadFromNacos(ctx)
		if err == nil {
			fmt.Printf("[Config] 配置已从 Nacos 加载: dataId=%s\n", os.Getenv("NACOS_DATA_ID"))
			return cfg, nil
		}
		fmt.Printf("[Config] 从 Nacos 加载配置失败，继续降级: error=%v\n", err)
	}

	if strings.TrimSpace(os.Getenv("ETCD_ENDPOINTS")) != "" {
		cfg, err := loadFromEtcd(ctx)
		if err == nil {
			fmt.Printf("[Config] 配置已从 Etcd 加载: key=%s\n", os.Getenv("ETCD_CONFIG_KEY"))
			return cfg, nil
		}
		fmt.Printf("[Config] 从 Etcd 加载配置失败，继续降级: error=%v\n", err)
	}

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config/dev.json"
	}
	cfg, err := loadFromFile(configFile)
	if err == nil {
		fmt.Printf("[Config] 配置已从本地文件加载: file=%s\n", configFile)
		return cfg, nil
	}
	return nil, fmt.Errorf("failed to load config from nacos/etcd/local file (%s): %w", configFile, err)
}

// loadFromFile 从本地 JSON 或 YAML 文件加载配置
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return parseByExt(data, filepath.Ext(filePath))
}

func parseByExt(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		// 默认先按 YAML 再按 JSON 尝试
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			if err2 := json.Unmarshal(data, &cfg); err2 != nil {
				return nil, fmt.Errorf("failed to parse config (tried YAML and JSON): yaml_err=%v, json_err=%v", err, err2)
			}
		}
	}
	return &cfg, nil
}

func loadFromEtcd(ctx context.Context) (*Config, error) {
	endpoints := strings.Split(os.Getenv("ETCD_ENDPOINTS"), ",")
	for i := range endpoints {
		endpoints[i] = strings.TrimSpace(endpoints[i])
	}
	if len(endpoints) == 0 || endpoints[0] == "" {
		return nil, errors.New("empty ETCD_ENDPOINTS")
	}
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: 5 * time.Second,
		Username:    os.Getenv("ETCD_USERNAME"),
		Password:    os.Getenv("ETCD_PASSWORD"),
	})
	if err != nil {
		return nil, fmt.Errorf("etcd connect failed: %w", err)
	}
	defer cli.Close()

	key := strings.TrimSpace(os.Getenv("ETCD_CONFIG_KEY"))
	if key == "" {
		return nil, errors.New("ETCD_CONFIG_KEY not set")
	}
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	resp, err := cli.Get(ctx2, key)
	if err != nil {
		return nil, fmt.Errorf("etcd get failed: %w", err)
	}
	if len(resp.Kvs) == 0 {
		return nil, fmt.Errorf("etcd key not found: %s", key)
	}
	return parseByExt(resp.Kvs[0].Value, filepath.Ext(key))
}

// loadFromNacos 从 Nacos 配置中心加载配置
func loadFromNacos(ctx context.Context) (*Config, error) {
	serverAddr := strings.TrimSpace(os.Getenv("NACOS_SERVER_ADDR"))
	dataID := strings.TrimSpace(os.Getenv("NACOS_DATA_ID"))
	if serverAddr == "" || dataID == "" {
		return nil, errors.New("NACOS_SERVER_ADDR/NACOS_DATA_ID not set")
	}

	namespace := strings.TrimSpace(os.Getenv("NACOS_NAMESPACE"))
	if namespace == "" {
		namespace = "public"
	}
	group := strings.TrimSpace(os.Getenv("NACOS_GROUP"))
	if group == "" {
		group = "DEFAULT_GROUP"
	}

	var serverConfigs []constant.ServerConfig
	for _, addr := range strings.Split(serverAddr, ",") {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		parts := strings.Split(addr, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid NACOS_SERVER_ADDR format: %s (expected host:port)", addr)
		}
		port, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid port in NACOS_SERVER_ADDR: %s", parts[1])
		}
		serverConfigs = append(serverConfigs, constant.ServerConfig{IpAddr: parts[0], Port: port})
	}
	if len(serverConfigs) == 0 {
		return nil, errors.New("no valid server address in NACOS_SERVER_ADDR")
	}

	clientConfig := constant.ClientConfig{
		NamespaceId:         namespace,
		TimeoutMs:           5000,
		NotLoadCacheAtStart: true,
		LogDir:              "/tmp/nacos/log",
		CacheDir:            "/tmp/nacos/cache",
		LogLevel:            "warn",
	}
	if u, p := os.Getenv("NACOS_USERNAME"), os.Getenv("NACOS_PASSWORD"); u != "" && p != "" {
		clientConfig.Username = u
		clientConfig.Password = p
	}

	configClient, err := clients.NewConfigClient(vo.NacosClientParam{
		ClientConfig:  &clientConfig,
		ServerConfigs: serverConfigs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create nacos config client: %w", err)
	}

	content, err := configClient.GetConfig(vo.ConfigParam{DataId: dataID, Group: group})
	if err != nil {
		return nil, fmt.Errorf("failed to get config from nacos: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("nacos config is empty: dataId=%s, group=%s", dataID, group)
	}
	return parseByExt([]byte(content), filepath.Ext(dataID))
}

// globalConfig 全局配置实例
var globalConfig *Config

// Set 设置全局配置
func Set(cfg *Config) {
	globalConfig = cfg
}

// Get 获取全局配置
func Get() *Config {
	return globalConfig
}
