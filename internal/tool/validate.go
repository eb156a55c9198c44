package tool

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
)

// 字段约束
const (
	MaxNameLength        = 80
	MaxDescriptionLength = 280
)

// validCharacters 自由文本字段允许的字符集
var validCharacters = regexp.MustCompile(`^[a-zA-Z0-9\s.,!?:;'"-]+$`)

// ValidationError 字段校验错误，Violations 列出全部违规原因
type ValidationError struct {
	Violations []string
}

// Error 实现error接口
func (e *ValidationError) Error() string {
	return "工具字段校验失败: " + strings.Join(e.Violations, "; ")
}

// ValidateName 校验名称字段，按 必填→长度→字符集 顺序返回第一个违规
func ValidateName(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s 不能为空", field)
	}
	if len(value) > MaxNameLength {
		return fmt.Errorf("%s 超过最大长度 %d", field, MaxNameLength)
	}
	if !validCharacters.MatchString(value) {
		return fmt.Errorf("%s 包含非法字符", field)
	}
	return nil
}

// ValidateDescription 校验描述字段，按 必填→长度→字符集 顺序返回第一个违规
func ValidateDescription(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s 不能为空", field)
	}
	if len(value) > MaxDescriptionLength {
		return fmt.Errorf("%s 超过最大长度 %d", field, MaxDescriptionLength)
	}
	if !validCharacters.MatchString(value) {
		return fmt.Errorf("%s 包含非法字符", field)
	}
	return nil
}

// ValidateURL 校验 URL 字段（http/https）
func ValidateURL(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s 不能为空", field)
	}
	u, err := url.ParseRequestURI(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s 不是合法的 URL", field)
	}
	return nil
}

// ValidateEmail 校验邮箱字段
func ValidateEmail(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s 不能为空", field)
	}
	if _, err := mail.ParseAddress(value); err != nil {
		return fmt.Errorf("%s 不是合法的邮箱地址", field)
	}
	return nil
}

// Validate 批量校验创建请求
// 四个自由文本字段全部检查（不短路），每个字段只报告第一个违规
func (r *CreateToolRequest) Validate() error {
	var violations []string

	checks := []error{
		ValidateName("name_for_human", r.NameForHuman),
		ValidateName("name_for_ai", r.NameForAI),
		ValidateDescription("description_for_human", r.DescriptionForHuman),
		ValidateDescription("description_for_ai", r.DescriptionForAI),
		ValidateURL("api_url", r.APIURL),
		ValidateURL("logo_url", r.LogoURL),
		ValidateEmail("contact_email", r.ContactEmail),
		ValidateURL("legal_info_url", r.LegalInfoURL),
	}
	for _, err := range checks {
		if err != nil {
			violations = append(violations, err.Error())
		}
	}

	if r.APIType != "" && r.APIType != APITypeOpenAPI {
		violations = append(violations, fmt.Sprintf("api_type 不支持: %s", r.APIType))
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// Validate 批量校验部分更新请求，只检查提交的字段
func (r *UpdateToolRequest) Validate() error {
	var violations []string

	appendErr := func(err error) {
		if err != nil {
			violations = append(violations, err.Error())
		}
	}

	if r.NameForHuman != nil {
		appendErr(ValidateName("name_for_human", *r.NameForHuman))
	}
	if r.NameForAI != nil {
		appendErr(ValidateName("name_for_ai", *r.NameForAI))
	}
	if r.DescriptionForHuman != nil {
		appendErr(ValidateDescription("description_for_human", *r.DescriptionForHuman))
	}
	if r.DescriptionForAI != nil {
		appendErr(ValidateDescription("description_for_ai", *r.DescriptionForAI))
	}
	if r.APIURL != nil {
		appendErr(ValidateURL("api_url", *r.APIURL))
	}
	if r.LogoURL != nil {
		appendErr(ValidateURL("logo_url", *r.LogoURL))
	}
	if r.ContactEmail != nil {
		appendErr(ValidateEmail("contact_email", *r.ContactEmail))
	}
	if r.LegalInfoURL != nil {
		appendErr(ValidateURL("legal_info_url", *r.LegalInfoURL))
	}
	if r.APIType != nil && *r.APIType != APITypeOpenAPI {
		violations = append(violations, fmt.Sprintf("api_type 不支持: %s", *r.APIType))
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
