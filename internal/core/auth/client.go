// Package auth 串接託管的身分服務（GoTrue 相容 API），並在本地驗證其簽發的存取權杖。
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"receita-facil/internal/infrastructure/config"
	"receita-facil/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const unknownError = "Erro desconhecido"

// AuthResponse 所有身分操作的統一結果
type AuthResponse struct {
	Success              bool     `json:"success"`
	Message              string   `json:"message"`
	Error                string   `json:"error,omitempty"`
	RequiresConfirmation *bool    `json:"requiresConfirmation,omitempty"`
	Session              *Session `json:"session,omitempty"`
}

// Session 身分服務簽發的權杖
type Session struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int    `json:"expiresIn"`
}

// tokenResponse GoTrue 的 session 回應
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// providerError GoTrue 各版本的錯誤格式
type providerError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	Err              string `json:"error"`
}

func (e *providerError) Error() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.Err} {
		if s != "" {
			return s
		}
	}
	return "unknown provider error"
}

// Client 身分服務客戶端
type Client struct {
	client      *resty.Client
	redirectURL string
}

// NewClient 創建身分服務客戶端
func NewClient(cfg config.AuthConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.ProviderURL, "/")+"/auth/v1").
		SetTimeout(cfg.Timeout).
		SetHeader("apikey", cfg.AnonKey).
		SetHeader("Content-Type", "application/json").
		SetError(&providerError{})

	return &Client{
		client:      client,
		redirectURL: strings.TrimRight(cfg.RedirectURL, "/"),
	}
}

// do 送出請求；transport 失敗與服務端錯誤分開回傳
func (c *Client) do(req *resty.Request, method, path string) (transportErr, providerErr error) {
	resp, err := req.Execute(method, path)
	if err != nil {
		return err, nil
	}
	if resp.IsError() {
		if pe, ok := resp.Error().(*providerError); ok && pe.Error() != "unknown provider error" {
			return nil, pe
		}
		return nil, fmt.Errorf("provider returned %d", resp.StatusCode())
	}
	return nil, nil
}

func failure(message string, err error) *AuthResponse {
	detail := unknownError
	if err != nil {
		detail = err.Error()
	}
	return &AuthResponse{Success: false, Message: message, Error: detail}
}

func success(message string) *AuthResponse {
	return &AuthResponse{Success: true, Message: message}
}

// SignUp 註冊新帳號；身分服務自動確認時直接回傳 session
func (c *Client) SignUp(ctx context.Context, email, password, name string) *AuthResponse {
	var out tokenResponse
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("redirect_to", c.redirectURL+"/dashboard").
		SetBody(map[string]interface{}{
			"email":    email,
			"password": password,
			"data":     map[string]string{"name": name},
		}).
		SetResult(&out)

	transportErr, providerErr := c.do(req, resty.MethodPost, "/signup")
	if transportErr != nil {
		logTransport("signup", transportErr)
		return failure("Erro inesperado ao criar conta", transportErr)
	}
	if providerErr != nil {
		return failure("Erro ao criar conta", providerErr)
	}

	confirm := out.AccessToken == ""
	resp := &AuthResponse{Success: true, RequiresConfirmation: &confirm}
	if confirm {
		resp.Message = "Conta criada! Verifique seu email para confirmar o cadastro."
	} else {
		resp.Message = "Conta criada com sucesso! Redirecionando..."
		resp.Session = out.session()
	}
	return resp
}

// SignIn 以帳號密碼登入
func (c *Client) SignIn(ctx context.Context, email, password string) *AuthResponse {
	var out tokenResponse
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out)

	transportErr, providerErr := c.do(req, resty.MethodPost, "/token")
	if transportErr != nil {
		logTransport("signin", transportErr)
		return failure("Erro ao fazer login", transportErr)
	}
	if providerErr != nil {
		if strings.Contains(providerErr.Error(), "Email not confirmed") {
			return failure("Email não confirmado. Verifique sua caixa de entrada.", providerErr)
		}
		return failure("Email ou senha incorretos", providerErr)
	}

	resp := success("Login realizado com sucesso!")
	resp.Session = out.session()
	return resp
}

// SignOut 撤銷存取權杖
func (c *Client) SignOut(ctx context.Context, accessToken string) *AuthResponse {
	req := c.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken)

	transportErr, providerErr := c.do(req, resty.MethodPost, "/logout")
	if err := errors.Join(transportErr, providerErr); err != nil {
		if transportErr != nil {
			logTransport("signout", transportErr)
		}
		return failure("Erro ao fazer logout", err)
	}
	return success("Logout realizado com sucesso!")
}

// ResetPassword 寄送重設密碼信件
func (c *Client) ResetPassword(ctx context.Context, email string) *AuthResponse {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("redirect_to", c.redirectURL+"/auth/reset-password").
		SetBody(map[string]string{"email": email})

	transportErr, providerErr := c.do(req, resty.MethodPost, "/recover")
	if transportErr != nil {
		logTransport("recover", transportErr)
		return failure("Erro ao solicitar recuperação de senha", transportErr)
	}
	if providerErr != nil {
		return failure("Erro ao enviar email de recuperação", providerErr)
	}
	return success("Email de recuperação enviado! Verifique sua caixa de entrada.")
}

// UpdatePassword 以目前 session 更新密碼
func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) *AuthResponse {
	req := c.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetBody(map[string]string{"password": newPassword})

	transportErr, providerErr := c.do(req, resty.MethodPut, "/user")
	if err := errors.Join(transportErr, providerErr); err != nil {
		if transportErr != nil {
			logTransport("update_user", transportErr)
		}
		return failure("Erro ao atualizar senha", err)
	}
	return success("Senha atualizada com sucesso!")
}

// ResendConfirmation 重新寄送註冊確認信
func (c *Client) ResendConfirmation(ctx context.Context, email string) *AuthResponse {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("redirect_to", c.redirectURL+"/dashboard").
		SetBody(map[string]string{"type": "signup", "email": email})

	transportErr, providerErr := c.do(req, resty.MethodPost, "/resend")
	if transportErr != nil {
		logTransport("resend", transportErr)
		return failure("Erro ao reenviar email", transportErr)
	}
	if providerErr != nil {
		return failure("Erro ao reenviar email de confirmação", providerErr)
	}
	return success("Email de confirmação reenviado! Verifique sua caixa de entrada.")
}

func (t tokenResponse) session() *Session {
	return &Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		ExpiresIn:    t.ExpiresIn,
	}
}

func logTransport(op string, err error) {
	var urlErr *url.Error
	timeout := errors.As(err, &urlErr) && urlErr.Timeout()
	common.LogError("Identity provider unreachable",
		zap.String("operation", op),
		zap.Bool("timeout", timeout),
		zap.Error(err),
	)
}
