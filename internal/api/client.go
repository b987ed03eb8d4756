// Package api is the typed client for the 闽派新语 backend JSON API. It is
// the only path to durable state; every controller in this module talks to
// the backend through it. Calls are single-shot — failures are surfaced to
// the caller and never retried here.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Client talks to one backend instance. The underlying http.Client carries a
// cookie jar so the session established by Login is reused by every call,
// the same way the browser pages relied on the session cookie.
type Client struct {
	base *url.URL
	http *http.Client
}

// New creates a client for the backend at baseURL.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	return &Client{
		base: u,
		http: &http.Client{Timeout: timeout, Jar: jar},
	}, nil
}

// CheckLogin queries the session status once.
func (c *Client) CheckLogin(ctx context.Context) (*LoginStatus, error) {
	var out LoginStatus
	if err := c.getJSON(ctx, "/api/check-login", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckExplored reports whether the signed-in user has already explored the
// named city.
func (c *Client) CheckExplored(ctx context.Context, cityName string) (bool, error) {
	q := url.Values{"city_name": {cityName}}
	var out ExploredStatus
	if err := c.getJSON(ctx, "/api/check-explored", q, &out); err != nil {
		return false, err
	}
	return out.Explored, nil
}

// MarkExplored persists an exploration mark for the named city. A server
// rejection (success:false) maps to a ValidationError carrying the server
// message.
func (c *Client) MarkExplored(ctx context.Context, cityName string) error {
	body := map[string]string{"city_name": cityName}
	var out FormResult
	if err := c.postJSON(ctx, "/api/mark-explored", body, &out); err != nil {
		return err
	}
	if !out.Success {
		return &ValidationError{Op: "mark explored", Message: out.Error}
	}
	return nil
}

// GetExplorations fetches the explored-city set for the signed-in user.
func (c *Client) GetExplorations(ctx context.Context) ([]string, error) {
	var out Explorations
	if err := c.getJSON(ctx, "/api/get-explorations", nil, &out); err != nil {
		return nil, err
	}
	return out.Explorations, nil
}

// Chat sends one question to the Q&A endpoint. An empty answer is reported
// as ErrEmptyAnswer so the caller can substitute its fallback text.
func (c *Client) Chat(ctx context.Context, question string) (string, error) {
	body := map[string]string{"question": question}
	var out ChatAnswer
	if err := c.postJSON(ctx, "/api/chat", body, &out); err != nil {
		return "", err
	}
	if out.Answer == "" {
		return "", ErrEmptyAnswer
	}
	return out.Answer, nil
}

// GetQuestions fetches the question bank. An empty bank is ErrNoQuestions:
// a quiz session must never start with zero questions.
func (c *Client) GetQuestions(ctx context.Context) ([]Question, error) {
	var out QuestionSet
	if err := c.getJSON(ctx, "/api/get-questions", nil, &out); err != nil {
		return nil, err
	}
	if len(out.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	return out.Questions, nil
}

// SubmitAnswer records one exam answer server-side. The response body beyond
// the status is not consumed; the displayed score is always computed locally.
func (c *Client) SubmitAnswer(ctx context.Context, questionID int, letter string) error {
	body := map[string]interface{}{
		"question_id": questionID,
		"user_answer": letter,
	}
	return c.postJSON(ctx, "/api/submit-answer", body, &struct{}{})
}

// FetchGeoJSON retrieves the static boundary dataset at path (for example
// "/static/fujian.json") and returns the raw bytes for the atlas to decode.
func (c *Client) FetchGeoJSON(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "GET " + path, Err: err}
	}
	return data, nil
}

// UploadAvatar uploads a new avatar image as multipart form data.
func (c *Client) UploadAvatar(ctx context.Context, filename string, r io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("avatar", filename)
	if err != nil {
		return fmt.Errorf("building multipart form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("reading avatar file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing multipart form: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/upload-avatar", &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeForm("upload avatar", resp)
}

// ChangePassword submits the password-change form.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	form := url.Values{
		"old_password": {oldPassword},
		"new_password": {newPassword},
	}
	return c.postForm(ctx, "/api/change-password", form, "change password")
}

// DeleteAccount submits the account-deletion form. The session is gone on
// success.
func (c *Client) DeleteAccount(ctx context.Context, password string) error {
	form := url.Values{"password": {password}}
	return c.postForm(ctx, "/api/delete-account", form, "delete account")
}

// Login establishes the session cookie the API endpoints require.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{
		"username": {username},
		"password": {password},
	}
	return c.postForm(ctx, "/login", form, "login")
}

// Register creates an account. The avatar is optional; when given, the
// request goes up as multipart form data the same way the register page
// posted it. Username length is checked locally first: at most 20, with
// CJK characters counting double.
func (c *Client) Register(ctx context.Context, username, password string, avatarName string, avatar io.Reader) error {
	if usernameWidth(username) > 20 {
		return &ValidationError{Op: "register", Message: "用户名不能超过20个字符（中文字符算2个字符）"}
	}

	if avatar == nil {
		form := url.Values{
			"username": {username},
			"password": {password},
		}
		return c.postForm(ctx, "/register", form, "register")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("username", username); err != nil {
		return fmt.Errorf("building multipart form: %w", err)
	}
	if err := mw.WriteField("password", password); err != nil {
		return fmt.Errorf("building multipart form: %w", err)
	}
	part, err := mw.CreateFormFile("avatar", avatarName)
	if err != nil {
		return fmt.Errorf("building multipart form: %w", err)
	}
	if _, err := io.Copy(part, avatar); err != nil {
		return fmt.Errorf("reading avatar file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing multipart form: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/register", &buf, mw.FormDataContentType())
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeForm("register", resp)
}

// usernameWidth counts CJK characters as two, everything else as one.
func usernameWidth(username string) int {
	w := 0
	for _, r := range username {
		if r >= 0x4e00 && r <= 0x9fff {
			w += 2
		} else {
			w++
		}
	}
	return w
}

// Logout drops the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/logout", nil, "")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	p := path
	if len(query) > 0 {
		p += "?" + query.Encode()
	}
	resp, err := c.do(ctx, http.MethodGet, p, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Op: "GET " + path, Err: err}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Op: "POST " + path, Err: err}
	}
	return nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, op string) error {
	resp, err := c.do(ctx, http.MethodPost, path, strings.NewReader(form.Encode()),
		"application/x-www-form-urlencoded")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeForm(op, resp)
}

func decodeForm(op string, resp *http.Response) error {
	var out FormResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return &ParseError{Op: op, Err: err}
	}
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = out.Message
		}
		return &ValidationError{Op: op, Message: msg}
	}
	return nil
}

// do issues the request and enforces the 2xx contract. Non-2xx responses are
// NetworkError even when the server attached a JSON body: the original pages
// treated them identically to transport failures.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	u := c.base.ResolveReference(&url.URL{Path: strings.SplitN(path, "?", 2)[0]})
	if i := strings.IndexByte(path, '?'); i >= 0 {
		u.RawQuery = path[i+1:]
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: method + " " + path, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &NetworkError{Op: method + " " + path, Status: resp.StatusCode}
	}
	return resp, nil
}
