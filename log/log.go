package log

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	logDirParentPath = ""
)

const (
	logDirName       string = "logs"
	logFileExtension string = "log"

	callerShortPath = "github.com/darkkaiser/rss-feed-reader"
)

func init() {
	log.SetLevel(log.TraceLevel)
	log.SetReportCaller(true)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
		CallerPrettyfier: func(frame *runtime.Frame) (function string, file string) {
			function = fmt.Sprintf("%s(line:%d)", frame.Function, frame.Line)
			if strings.HasPrefix(function, callerShortPath) == true {
				function = "..." + function[len(callerShortPath):]
			}

			return
		},
	})
}

// Init 운영 모드이면 로그를 파일로 출력하도록 설정하고, 일정 시간이 지난 로그 파일을 삭제한다.
// 디버그 모드이면 표준 에러로 출력하며 nil을 반환한다.
func Init(debug bool, appName string, checkDaysAgo float64) io.Closer {
	if debug == true {
		log.SetLevel(log.TraceLevel)
		return nil
	}

	log.SetLevel(log.InfoLevel)

	logDirPath := logDirParentPath + logDirName

	// 로그 파일이 쌓이는 폴더를 생성한다.
	if _, err := os.Stat(logDirPath); os.IsNotExist(err) == true {
		if err := os.MkdirAll(logDirPath, 0755); err != nil {
			log.Fatalf("로그 폴더를 생성할 수 없습니다. (error:%s)", err)
		}
	}

	// 로그 파일을 생성한다.
	t := time.Now()
	logFilePath := filepath.Join(logDirPath, fmt.Sprintf("%s-%d%02d%02d%02d%02d%02d.%s", appName, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), logFileExtension))
	logFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("로그 파일을 생성할 수 없습니다. (error:%s)", err)
	}

	log.SetOutput(logFile)

	// 일정 시간이 지난 로그 파일을 모두 삭제한다.
	cleanOutOfLogFiles(appName, checkDaysAgo)

	return logFile
}

func cleanOutOfLogFiles(appName string, checkDaysAgo float64) {
	logDirPath := logDirParentPath + logDirName

	entries, err := os.ReadDir(logDirPath)
	if err != nil {
		return
	}

	t := time.Now()
	for _, entry := range entries {
		fileName := entry.Name()
		if strings.HasPrefix(fileName, appName) == false || strings.HasSuffix(fileName, logFileExtension) == false {
			continue
		}

		fi, err := entry.Info()
		if err != nil {
			continue
		}

		daysAgo := math.Abs(t.Sub(fi.ModTime()).Hours()) / 24
		if daysAgo >= checkDaysAgo {
			filePath := filepath.Join(logDirPath, fileName)

			if err = os.Remove(filePath); err == nil {
				log.Infof("오래된 로그파일 삭제 성공(%s)", filePath)
			} else {
				log.Errorf("오래된 로그파일 삭제 실패(%s), %s", filePath, err)
			}
		}
	}
}
