package httputil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// TestNewClient 测试创建基础客户端
func TestNewClient(t *testing.T) {
	// 测试默认配置
	client := NewClient()
	if client == nil {
		t.Fatal("NewClient() 返回 nil")
	}

	if client.timeout != 30*time.Second {
		t.Errorf("默认超时时间应为30秒，实际为 %v", client.timeout)
	}

	if client.headers["User-Agent"] != "ToolHub/2.0" {
		t.Errorf("默认User-Agent不正确: %s", client.headers["User-Agent"])
	}

	// 测试自定义配置
	customClient := NewClient(
		WithTimeout(10*time.Second),
		WithHeaders(map[string]string{"X-Custom": "value"}),
		WithRetries(3),
	)

	if customClient.timeout != 10*time.Second {
		t.Errorf("自定义超时时间应为10秒，实际为 %v", customClient.timeout)
	}

	if customClient.headers["X-Custom"] != "value" {
		t.Errorf("自定义头未设置")
	}

	if customClient.retries != 3 {
		t.Errorf("重试次数应为3，实际为 %d", customClient.retries)
	}
}

// TestClientGetJSON 测试GetJSON方法
func TestClientGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			t.Errorf("期望GET请求，实际为 %s", r.Method)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"message": "success",
			"status":  "ok",
		})
	}))
	defer server.Close()

	client := NewClient()

	var result map[string]string
	err := client.GetJSON(context.Background(), server.URL, &result)
	if err != nil {
		t.Fatalf("GetJSON() 错误: %v", err)
	}

	if result["message"] != "success" {
		t.Errorf("期望 message='success'，实际为 '%s'", result["message"])
	}

	if result["status"] != "ok" {
		t.Errorf("期望 status='ok'，实际为 '%s'", result["status"])
	}
}

// TestClientPostJSON 测试PostJSON方法
func TestClientPostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("期望POST请求，实际为 %s", r.Method)
		}

		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("期望Content-Type为application/json")
		}

		var reqBody map[string]string
		json.NewDecoder(r.Body).Decode(&reqBody)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"echo": reqBody["message"],
		})
	}))
	defer server.Close()

	client := NewClient()

	reqBody := map[string]string{"message": "hello"}
	var result map[string]string
	err := client.PostJSON(context.Background(), server.URL, reqBody, &result)
	if err != nil {
		t.Fatalf("PostJSON() 错误: %v", err)
	}

	if result["echo"] != "hello" {
		t.Errorf("期望 echo='hello'，实际为 '%s'", result["echo"])
	}
}

// TestClientPostJSONRawNonOK 测试非 2xx 响应按错误处理
func TestClientPostJSONRawNonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad input", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient()

	_, err := client.PostJSONRaw(context.Background(), server.URL, map[string]string{"k": "v"})
	if err == nil {
		t.Fatal("4xx 响应应返回错误")
	}
}

// TestClientRetriesOn5xx 测试 5xx 自动重试
func TestClientRetriesOn5xx(t *testing.T) {
	var count int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&count, 1) < 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := NewClient(WithRetries(3))

	var result map[string]string
	if err := client.GetJSON(context.Background(), server.URL, &result); err != nil {
		t.Fatalf("重试后应成功: %v", err)
	}
	if atomic.LoadInt64(&count) != 3 {
		t.Errorf("期望发起3次请求，实际 %d 次", count)
	}

	if result["status"] != "ok" {
		t.Errorf("期望 status='ok'，实际为 '%s'", result["status"])
	}
}

// TestClientDoesNotRetryOn4xx 测试 4xx 不重试
func TestClientDoesNotRetryOn4xx(t *testing.T) {
	var count int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&count, 1)
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(WithRetries(3))

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get() 错误: %v", err)
	}
	resp.Body.Close()

	if atomic.LoadInt64(&count) != 1 {
		t.Errorf("4xx 不应重试，实际发起 %d 次请求", count)
	}
}
