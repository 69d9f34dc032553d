package g

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/robfig/cron/v3"
)

const (
	AppName    string = "rss-feed-reader"
	AppVersion string = "0.1.0"

	AppConfigFileName = AppName + ".json"

	// 환경변수로 설정값을 덮어쓸 때 사용하는 접두어, 중첩 항목은 '__'로 구분한다.
	// ex) RSS_FEED_READER_MINIFLUX__API_KEY
	AppEnvPrefix = "RSS_FEED_READER_"
)

type AppConfig struct {
	Debug     bool            `koanf:"debug"`
	Miniflux  MinifluxConfig  `koanf:"miniflux"`
	Store     StoreConfig     `koanf:"store"`
	Reader    ReaderConfig    `koanf:"reader"`
	Sync      SyncConfig      `koanf:"sync"`
	WS        WSConfig        `koanf:"ws"`
	NotifyAPI NotifyAPIConfig `koanf:"notify_api"`
}

type MinifluxConfig struct {
	Url               string        `koanf:"url" validate:"required,url"`
	APIKey            string        `koanf:"api_key" validate:"required"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gt=0"`
	Burst             int           `koanf:"burst" validate:"min=1"`
}

type StoreConfig struct {
	Path string `koanf:"path" validate:"required"`
}

type ReaderConfig struct {
	PageSize              int    `koanf:"page_size" validate:"min=1,max=500"`
	SortField             string `koanf:"sort_field" validate:"oneof=published_at created_at title"`
	SortDirection         string `koanf:"sort_direction" validate:"oneof=asc desc"`
	ShowHiddenFeeds       bool   `koanf:"show_hidden_feeds"`
	ShowUnreadByDefault   bool   `koanf:"show_unread_by_default"`
	DefaultExpandCategory bool   `koanf:"default_expand_category"`
}

type SyncConfig struct {
	TimeSpec             string `koanf:"time_spec" validate:"required"`
	ConnectivityTimeSpec string `koanf:"connectivity_time_spec" validate:"required"`
	MaxEntries           int    `koanf:"max_entries" validate:"min=1"`
}

type WSConfig struct {
	TLSServer   bool   `koanf:"tls_server"`
	TLSCertFile string `koanf:"tls_cert_file" validate:"required_if=TLSServer true"`
	TLSKeyFile  string `koanf:"tls_key_file" validate:"required_if=TLSServer true"`
	ListenPort  int    `koanf:"listen_port" validate:"min=1,max=65535"`
}

// NotifyAPIConfig 비어있으면 알림 전송을 하지 않는다.
type NotifyAPIConfig struct {
	Url           string `koanf:"url" validate:"omitempty,url"`
	APIKey        string `koanf:"api_key"`
	ApplicationID string `koanf:"application_id"`
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		Miniflux: MinifluxConfig{
			Timeout:           30 * time.Second,
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Store: StoreConfig{
			Path: fmt.Sprintf("./%s.db", AppName),
		},
		Reader: ReaderConfig{
			PageSize:              30,
			SortField:             "published_at",
			SortDirection:         "desc",
			DefaultExpandCategory: false,
		},
		Sync: SyncConfig{
			TimeSpec:             "@every 15m",
			ConnectivityTimeSpec: "@every 30s",
			MaxEntries:           1000,
		},
		WS: WSConfig{
			ListenPort: 8080,
		},
	}
}

// LoadAppConfig 기본값, 설정파일, 환경변수 순서로 설정값을 읽어들인 후 유효성 검사를 한다.
func LoadAppConfig(filePath string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultAppConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("기본 설정값을 읽어들일 수 없습니다: %w", err)
	}
	if filePath != "" {
		if err := k.Load(file.Provider(filePath), json.Parser()); err != nil {
			return nil, fmt.Errorf("설정파일(%s)을 읽어들일 수 없습니다: %w", filePath, err)
		}
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: AppEnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ToLower(strings.TrimPrefix(k, AppEnvPrefix))
			return strings.ReplaceAll(k, "__", "."), v
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("환경변수를 읽어들일 수 없습니다: %w", err)
	}

	var config AppConfig
	err := k.UnmarshalWithConf("", &config, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.ComposeDecodeHookFunc(mapstructure.StringToTimeDurationHookFunc()),
			Result:           &config,
			TagName:          "koanf",
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("설정값을 변환할 수 없습니다: %w", err)
	}

	if err := config.validation(); err != nil {
		return nil, err
	}

	return &config, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *AppConfig) validation() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if strings.HasSuffix(c.Miniflux.Url, "/") == true {
		c.Miniflux.Url = strings.TrimRight(c.Miniflux.Url, "/")
	}

	if _, err := cron.ParseStandard(c.Sync.TimeSpec); err != nil {
		return fmt.Errorf("동기화 스케쥴(%s)이 유효하지 않습니다: %w", c.Sync.TimeSpec, err)
	}
	if _, err := cron.ParseStandard(c.Sync.ConnectivityTimeSpec); err != nil {
		return fmt.Errorf("네트워크 상태 확인 스케쥴(%s)이 유효하지 않습니다: %w", c.Sync.ConnectivityTimeSpec, err)
	}

	if c.NotifyAPI.Url != "" {
		if strings.TrimSpace(c.NotifyAPI.APIKey) == "" {
			return errors.New("NotifyAPI의 APIKey가 입력되지 않았습니다")
		}
		if strings.TrimSpace(c.NotifyAPI.ApplicationID) == "" {
			return errors.New("NotifyAPI의 ApplicationID가 입력되지 않았습니다")
		}
	}

	return nil
}
