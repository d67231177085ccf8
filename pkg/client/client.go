// Package client talks to the emoji API the way the browser front-end does:
// it keeps the session cookies, fetches a CSRF token before signing up and
// sends the access token in the Authorization header.
package client

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
	"strconv"
)

const (
	apiPrefix  = "/api/v1"
	csrfHeader = "X-CSRF-Token"
)

type Client struct {
	baseURL     *url.URL
	hc          *http.Client
	accessToken string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.hc = hc
	}
}

func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.accessToken = token
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url error: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar error: %w", err)
	}

	c := &Client{
		baseURL: u,
		hc:      &http.Client{Jar: jar}, //nolint:exhaustruct
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.hc.Jar == nil {
		c.hc.Jar = jar
	}

	return c, nil
}

func (c *Client) AccessToken() string {
	return c.accessToken
}

func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

func (c *Client) Search(ctx context.Context, p SearchParams) (SearchResponse, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))

	if p.Order != "" {
		q.Set("order", p.Order)
	}

	if p.Keyword != "" {
		q.Set("keyword", p.Keyword)
	}

	if p.Target != "" {
		q.Set("target", p.Target)
	}

	if p.Num != 0 {
		q.Set("num", strconv.Itoa(p.Num))
	}

	var resp SearchResponse

	err := c.do(ctx, http.MethodGet, apiPrefix+"/search?"+q.Encode(), nil, &resp)

	return resp, err
}

func (c *Client) GetEmoji(ctx context.Context, id int64) (EmojiResponse, error) {
	var resp EmojiResponse

	err := c.do(ctx, http.MethodGet, emojiPath(id), nil, &resp)

	return resp, err
}

func (c *Client) EditEmoji(ctx context.Context, id int64, name, description string) (EmojiResponse, error) {
	body := map[string]interface{}{
		"emoji": map[string]string{"name": name, "description": description},
	}

	var resp EmojiResponse

	err := c.do(ctx, http.MethodPatch, emojiPath(id), body, &resp)

	return resp, err
}

func (c *Client) DeleteEmoji(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, emojiPath(id), nil, nil)
}

// UploadEmoji posts a new emoji as a multipart form. The image is read from image.
func (c *Client) UploadEmoji(ctx context.Context, name, description string, tags []string,
	filename string, image io.Reader,
) (EmojiResponse, error) {
	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	fields := [][2]string{{"name", name}, {"description", description}}
	for _, t := range tags {
		fields = append(fields, [2]string{"tags", t})
	}

	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return EmojiResponse{}, fmt.Errorf("write field error: %w", err)
		}
	}

	if image != nil {
		fw, err := mw.CreateFormFile("image", filename)
		if err != nil {
			return EmojiResponse{}, fmt.Errorf("create form file error: %w", err)
		}

		if _, err := io.Copy(fw, image); err != nil {
			return EmojiResponse{}, fmt.Errorf("copy image error: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return EmojiResponse{}, fmt.Errorf("close form error: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, apiPrefix+"/emoji", nil)
	if err != nil {
		return EmojiResponse{}, err
	}

	req.Body = io.NopCloser(&buf)
	req.ContentLength = int64(buf.Len())
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp EmojiResponse

	if err := c.send(req, &resp); err != nil {
		return EmojiResponse{}, err
	}

	return resp, nil
}

func (c *Client) AddTag(ctx context.Context, id int64, name string) (EmojiResponse, error) {
	body := map[string]interface{}{
		"tag": map[string]string{"name": name},
	}

	var resp EmojiResponse

	err := c.do(ctx, http.MethodPost, emojiPath(id)+"/tags", body, &resp)

	return resp, err
}

func (c *Client) DeleteTag(ctx context.Context, id, tagID int64) (EmojiResponse, error) {
	var resp EmojiResponse

	err := c.do(ctx, http.MethodDelete, emojiPath(id)+"/tags/"+strconv.FormatInt(tagID, 10), nil, &resp)

	return resp, err
}

// GetUser returns the profile of a user with the emojis they uploaded.
func (c *Client) GetUser(ctx context.Context, id int64) (User, error) {
	var resp struct {
		User User `json:"user"`
	}

	err := c.do(ctx, http.MethodGet, apiPrefix+"/users/"+strconv.FormatInt(id, 10), nil, &resp)

	return resp.User, err
}

// SignOut revokes the access token on the server and forgets it.
func (c *Client) SignOut(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, apiPrefix+"/signin", nil, nil); err != nil {
		return err
	}

	c.accessToken = ""

	return nil
}

// SignUp registers a user and keeps its access token for later calls.
func (c *Client) SignUp(ctx context.Context, email, name, password, confirmation string) (AuthResponse, error) {
	if err := c.FetchCSRF(ctx); err != nil {
		return AuthResponse{}, err
	}

	body := map[string]interface{}{
		"user": map[string]string{
			"email":                 email,
			"name":                  name,
			"password":              password,
			"password_confirmation": confirmation,
		},
	}

	var resp AuthResponse

	if err := c.do(ctx, http.MethodPost, apiPrefix+"/users", body, &resp); err != nil {
		return AuthResponse{}, err
	}

	c.accessToken = resp.AccessToken

	return resp, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (AuthResponse, error) {
	if err := c.FetchCSRF(ctx); err != nil {
		return AuthResponse{}, err
	}

	body := map[string]interface{}{
		"user": map[string]string{"email": email, "password": password},
	}

	var resp AuthResponse

	if err := c.do(ctx, http.MethodPost, apiPrefix+"/signin", body, &resp); err != nil {
		return AuthResponse{}, err
	}

	c.accessToken = resp.AccessToken

	return resp, nil
}

// Download fetches link, a path such as a download cart link, and copies the body to w.
func (c *Client) Download(ctx context.Context, link string, w io.Writer) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, link, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return 0, decodeError(resp)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("copy body error: %w", err)
	}

	return n, nil
}

// FetchCSRF obtains a CSRF token. The token cookie is kept in the jar and echoed
// in the X-CSRF-Token header of requests sent without an access token.
func (c *Client) FetchCSRF(ctx context.Context) error {
	var resp struct {
		CSRFToken string `json:"csrf_token"` //nolint:tagliatelle
	}

	return c.do(ctx, http.MethodGet, apiPrefix+"/csrf", nil, &resp)
}

func (c *Client) csrfToken(u *url.URL) string {
	for _, ck := range c.hc.Jar.Cookies(u) {
		if ck.Name == "csrf_token" {
			return ck.Value
		}
	}

	return ""
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse path error: %w", err)
	}

	u := c.baseURL.ResolveReference(ref)

	var r io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body error: %w", err)
		}

		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return nil, fmt.Errorf("create request error: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	} else if token := c.csrfToken(u); token != "" {
		req.Header.Set(csrfHeader, token)
	}

	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("do request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response error: %w", err)
	}

	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode} //nolint:exhaustruct

	var body struct {
		Errors json.RawMessage `json:"errors"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		apiErr.Message = http.StatusText(resp.StatusCode)

		return apiErr
	}

	var msg struct {
		Error string `json:"error"`
	}

	if err := json.Unmarshal(body.Errors, &msg); err == nil && msg.Error != "" {
		apiErr.Message = msg.Error

		return apiErr
	}

	if err := json.Unmarshal(body.Errors, &apiErr.Fields); err != nil {
		apiErr.Message = string(body.Errors)
	}

	return apiErr
}

func emojiPath(id int64) string {
	return apiPrefix + "/emoji/" + strconv.FormatInt(id, 10)
}
