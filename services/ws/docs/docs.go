// Package docs swag init 으로 생성된 API 문서
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "DarkKaiser"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/articles": {
            "get": {"tags": ["articles"], "summary": "현재 게시글 목록", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/articles/more": {
            "post": {"tags": ["articles"], "summary": "다음 페이지 읽기", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/articles.rss": {
            "get": {"tags": ["export"], "summary": "현재 목록을 RSS 2.0으로 내보내기", "produces": ["application/xml"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/articles.atom": {
            "get": {"tags": ["export"], "summary": "현재 목록을 Atom으로 내보내기", "produces": ["application/xml"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/scope": {
            "put": {"tags": ["articles"], "summary": "조회 범위 변경", "consumes": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/filter": {
            "put": {"tags": ["articles"], "summary": "필터 변경", "consumes": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/sort": {
            "put": {"tags": ["articles"], "summary": "정렬 기준 변경", "consumes": ["application/json"], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/show-hidden": {
            "put": {"tags": ["articles"], "summary": "숨김 피드 표시 여부 변경", "consumes": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/visible-range": {
            "put": {"tags": ["articles"], "summary": "화면에 보이는 범위 전달", "consumes": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/articles/{id}/status": {
            "put": {"tags": ["mutations"], "summary": "읽음 상태 반전", "parameters": [{"type": "integer", "description": "게시글 ID", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/articles/{id}/starred": {
            "put": {"tags": ["mutations"], "summary": "별표 반전", "parameters": [{"type": "integer", "description": "게시글 ID", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/articles/{id}/mark-above": {
            "post": {"tags": ["mutations"], "summary": "기준 게시글과 그 위의 게시글을 모두 읽음으로 표시", "parameters": [{"type": "integer", "description": "기준 게시글 ID", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/articles/{id}/mark-below": {
            "post": {"tags": ["mutations"], "summary": "기준 게시글과 그 아래의 게시글을 모두 읽음으로 표시", "parameters": [{"type": "integer", "description": "기준 게시글 ID", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/mark-all-read": {
            "post": {"tags": ["mutations"], "summary": "범위의 게시글을 모두 읽음으로 표시", "consumes": ["application/json"], "responses": {"202": {"description": "Accepted"}}}
        },
        "/api/counters": {
            "get": {"tags": ["articles"], "summary": "피드별 읽지 않은 게시글 수와 별표 게시글 수", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/navigation": {
            "get": {"tags": ["navigation"], "summary": "사이드바에서 이동할 수 있는 항목", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}
        },
        "/api/categories/{id}/expanded": {
            "put": {"tags": ["navigation"], "summary": "카테고리 펼침 상태 변경", "consumes": ["application/json"], "parameters": [{"type": "integer", "description": "카테고리 ID", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/navigation/{direction}": {
            "get": {"tags": ["navigation"], "summary": "사이드바 이동", "parameters": [{"type": "string", "description": "prev, next, toggle", "name": "direction", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/feeds/{id}": {
            "put": {"tags": ["feeds"], "summary": "피드 정보 수정", "parameters": [{"type": "integer", "description": "피드 ID", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/feeds/{id}/preferences": {
            "get": {"tags": ["feeds"], "summary": "피드별 설정 조회", "parameters": [{"type": "integer", "description": "피드 ID", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["feeds"], "summary": "피드별 설정 저장", "parameters": [{"type": "integer", "description": "피드 ID", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["feeds"], "summary": "피드별 설정 삭제", "parameters": [{"type": "integer", "description": "피드 ID", "name": "id", "in": "path", "required": true}], "responses": {"204": {"description": "No Content"}}}
        },
        "/api/sync": {
            "post": {"tags": ["sync"], "summary": "원격 서비스와 즉시 동기화", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "RSS Feed Reader API",
	Description:      "Miniflux 기반 RSS 리더의 게시글 목록/상태 변경 API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
