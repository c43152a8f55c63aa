package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 教学说明：测试辅助工具
// 这个文件包含集成测试的通用辅助函数，遵循DRY原则（Don't Repeat Yourself）
// 将重复的代码（HTTP请求、JSON解析）封装成可复用的函数
//
// 集成测试需要服务已启动(默认localhost:8080)。
// 服务不可达时测试自动跳过,不阻塞纯单元测试的运行。

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// RegisterData 注册响应数据
type RegisterData struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// BookData 图书响应数据
type BookData struct {
	ID    uint   `json:"id"`
	ISBN  string `json:"isbn"`
	Title string `json:"title"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

// OrderData 下单响应数据
type OrderData struct {
	OrderID            uint   `json:"order_id"`
	ClaimCode          string `json:"claim_code"`
	Total              int64  `json:"total"`
	TotalYuan          string `json:"total_yuan"`
	FivePercentApplied bool   `json:"five_percent_applied"`
	TenPercentApplied  bool   `json:"ten_percent_applied"`
	Status             string `json:"status"`
}

// FulfillData 核销响应数据
type FulfillData struct {
	OrderID   uint   `json:"order_id"`
	LineCount int    `json:"line_count"`
	Total     int64  `json:"total"`
	TotalYuan string `json:"total_yuan"`
}

// LoyaltyData 忠实读者响应数据
type LoyaltyData struct {
	Eligible        bool  `json:"eligible"`
	FulfilledOrders int64 `json:"fulfilled_orders"`
	RequiredOrders  int64 `json:"required_orders"`
}

// RequireServer 服务不可达时跳过当前测试
func RequireServer(t *testing.T) {
	t.Helper()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://localhost:8080/ping")
	if err != nil {
		t.Skipf("服务未启动,跳过集成测试: %v", err)
	}
	resp.Body.Close()
}

// StaffToken 获取店员Token
// 店员账号由运营后台开通,测试环境通过环境变量注入凭据:
// BOOKSHOP_TEST_STAFF_EMAIL / BOOKSHOP_TEST_STAFF_PASSWORD
// 未配置时跳过依赖店员身份的测试
func StaffToken(t *testing.T) string {
	t.Helper()

	email := os.Getenv("BOOKSHOP_TEST_STAFF_EMAIL")
	password := os.Getenv("BOOKSHOP_TEST_STAFF_PASSWORD")
	if email == "" || password == "" {
		t.Skip("未配置店员测试账号(BOOKSHOP_TEST_STAFF_EMAIL/PASSWORD),跳过")
	}

	loginReq := map[string]string{
		"email":    email,
		"password": password,
	}
	loginResp := PostJSON(t, BaseURL+"/members/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "店员登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return loginData.AccessToken
}

// PostJSON 发送POST请求并解析JSON响应
//
// 教学说明：
// - 使用*testing.T参数，可以在失败时立即终止测试
// - 使用require包进行断言，失败会立即停止（不继续执行）
// - 返回*Response而非error，简化调用方代码
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	jsonData, err := json.Marshal(data)
	require.NoError(t, err, "JSON序列化失败")

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	require.NoError(t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(body, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(body))

	return &result
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	req, err := http.NewRequest("GET", url, nil)
	require.NoError(t, err, "创建HTTP请求失败")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(body, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(body))

	return &result
}

// GenerateTestEmail 生成唯一的测试邮箱
// 使用纳秒时间戳确保唯一性，避免测试重复运行时邮箱冲突
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
}

// GenerateTestISBN 生成唯一的测试ISBN
// ISBN-13格式：978 + 10位数字
func GenerateTestISBN() string {
	timestamp := time.Now().UnixNano()
	return fmt.Sprintf("978%010d", timestamp%10000000000)
}

// RegisterTestMember 注册测试会员并返回Token
// 封装注册+登录的完整流程,让测试更关注业务逻辑
func RegisterTestMember(t *testing.T, fullName string) (email string, token string) {
	// 1. 注册
	email = GenerateTestEmail(fullName)
	registerReq := map[string]string{
		"email":     email,
		"password":  "Test1234",
		"full_name": fullName,
	}

	registerResp := PostJSON(t, BaseURL+"/members/register", registerReq, "")
	require.Equal(t, 0, registerResp.Code, "注册失败: %s", registerResp.Message)

	// 2. 登录
	loginReq := map[string]string{
		"email":    email,
		"password": "Test1234",
	}

	loginResp := PostJSON(t, BaseURL+"/members/login", loginReq, "")
	require.Equal(t, 0, loginResp.Code, "登录失败: %s", loginResp.Message)

	var loginData LoginData
	err := json.Unmarshal(loginResp.Data, &loginData)
	require.NoError(t, err, "解析登录响应失败")

	return email, loginData.AccessToken
}

// PublishTestBook 以店员身份上架测试图书并返回图书ID
func PublishTestBook(t *testing.T, staffToken string, title string, price int64, stock int) uint {
	isbn := GenerateTestISBN()
	bookReq := map[string]interface{}{
		"title":       title,
		"author":      "测试作者",
		"isbn":        isbn,
		"publisher":   "测试出版社",
		"price":       price,
		"stock":       stock,
		"description": "集成测试用图书",
	}

	bookResp := PostJSON(t, BaseURL+"/staff/books", bookReq, staffToken)
	require.Equal(t, 0, bookResp.Code, "图书上架失败: %s", bookResp.Message)

	var bookData BookData
	err := json.Unmarshal(bookResp.Data, &bookData)
	require.NoError(t, err, "解析图书响应失败")

	return bookData.ID
}

// PlaceTestOrder 下一张单并返回订单数据
func PlaceTestOrder(t *testing.T, token string, items []map[string]interface{}) *OrderData {
	orderReq := map[string]interface{}{"items": items}
	resp := PostJSON(t, BaseURL+"/orders", orderReq, token)
	require.Equal(t, 0, resp.Code, "下单失败: %s", resp.Message)

	var data OrderData
	err := json.Unmarshal(resp.Data, &data)
	require.NoError(t, err, "解析订单响应失败")

	return &data
}
