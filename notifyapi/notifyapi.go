package notifyapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type Config struct {
	Url           string
	APIKey        string
	ApplicationID string

	valid bool
}

func (c *Config) validation() bool {
	c.valid = false

	if strings.TrimSpace(c.APIKey) == "" || strings.TrimSpace(c.ApplicationID) == "" {
		return false
	}

	u, err := url.ParseRequestURI(strings.TrimSpace(c.Url))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}

	c.valid = true

	return true
}

type notifyMessage struct {
	ApplicationID string `json:"application_id"`
	Message       string `json:"message"`
	ErrorOccurred bool   `json:"error_occurred"`
}

var (
	config   *Config
	configMu sync.RWMutex

	client = &http.Client{Timeout: 10 * time.Second}
)

// Init 설정값이 유효하지 않으면 알림 메시지를 전송하지 않는다.
func Init(c *Config) {
	configMu.Lock()
	defer configMu.Unlock()

	config = c
	if config.validation() == false {
		log.Warn("NotifyAPI 설정값이 유효하지 않아 알림 메시지가 전송되지 않습니다.")
	}
}

func Send(message string, errorOccurred bool) bool {
	configMu.RLock()
	c := config
	configMu.RUnlock()

	if c == nil || c.valid == false || message == "" {
		return false
	}

	jsonBytes, err := json.Marshal(notifyMessage{
		ApplicationID: c.ApplicationID,
		Message:       message,
		ErrorOccurred: errorOccurred,
	})
	if err != nil {
		log.Errorf("NotifyAPI 서비스 호출이 실패하였습니다. (error:%s)", err)
		return false
	}

	req, err := http.NewRequest(http.MethodPost, c.Url, bytes.NewBuffer(jsonBytes))
	if err != nil {
		log.Errorf("NotifyAPI 서비스 호출이 실패하였습니다. (error:%s)", err)
		return false
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Cache-Control", "no-cache")

	res, err := client.Do(req)
	if err != nil {
		log.Errorf("NotifyAPI 서비스 호출이 실패하였습니다. (error:%s)", err)
		return false
	}
	//noinspection GoUnhandledErrorResult
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		log.Errorf("NotifyAPI 서비스 호출이 실패하였습니다. (HTTP 상태코드:%d)", res.StatusCode)
		return false
	}

	return true
}
