package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	neturl "net/url"
	"path/filepath"
	"strings"
	"time"
)

// Endpoint bases are variables so tests can point them at local servers.
var (
	telegramAPIBase    = "https://api.telegram.org"
	telegraphUploadURL = "https://telegra.ph/upload"
)

var (
	// storageHTTPClient covers upload and resolve calls.
	storageHTTPClient = &http.Client{Timeout: 30 * time.Second}
	// streamHTTPClient covers content downloads; media files can be large.
	streamHTTPClient = &http.Client{Timeout: 10 * time.Minute}
)

// ProxyPathPrefix is the internal path issued for relayed uploads. Resolution
// against the remote backend is deferred until the file is actually requested.
const ProxyPathPrefix = "/proxy/"

const directLinkMaxSize = 5 << 20 // telegra.ph rejects files of 5MB and above

// Extensions telegra.ph accepts for direct permanent links.
var directLinkExts = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"mp4":  true,
}

var (
	// ErrStorageNotConfigured means the credential pair is absent at upload time.
	ErrStorageNotConfigured = errors.New("telegram storage credentials not configured")
	// ErrFileNotFound means the remote backend could not resolve a file reference.
	ErrFileNotFound = errors.New("file not found on storage backend")
)

// UpstreamError carries the remote storage API's failure description.
type UpstreamError struct {
	Op          string
	Description string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("telegram %s failed: %s", e.Op, e.Description)
}

type tgFileRef struct {
	FileID string `json:"file_id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type tgEnvelope struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64       `json:"message_id"`
		Document  *tgFileRef  `json:"document"`
		Video     *tgFileRef  `json:"video"`
		Photo     []tgFileRef `json:"photo"`
		FilePath  string      `json:"file_path"`
	} `json:"result"`
}

// extractFileID picks the relayed file identifier from a send response:
// document, then video, then the largest-resolution photo variant.
func extractFileID(env *tgEnvelope) string {
	if env.Result.Document != nil && env.Result.Document.FileID != "" {
		return env.Result.Document.FileID
	}
	if env.Result.Video != nil && env.Result.Video.FileID != "" {
		return env.Result.Video.FileID
	}
	best := ""
	bestArea := -1
	for _, p := range env.Result.Photo {
		if area := p.Width * p.Height; area > bestArea && p.FileID != "" {
			best = p.FileID
			bestArea = area
		}
	}
	return best
}

// messageLink builds a best-effort public t.me link for a channel message.
// These links are not resolvable by the proxy; they exist only as a degraded
// fallback when no file id can be extracted.
func messageLink(channelID string, messageID int64) string {
	if strings.HasPrefix(channelID, "@") {
		return fmt.Sprintf("https://t.me/%s/%d", strings.TrimPrefix(channelID, "@"), messageID)
	}
	return fmt.Sprintf("https://t.me/c/%s/%d", strings.TrimPrefix(channelID, "-100"), messageID)
}

// UploadToTelegram posts the document to the configured channel and returns an
// internal proxy path for the relayed file.
func UploadToTelegram(ctx context.Context, content []byte, filename string, cred StorageCredential) (string, error) {
	if cred.BotToken == "" || cred.ChannelID == "" {
		return "", ErrStorageNotConfigured
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("chat_id", cred.ChannelID); err != nil {
		return "", err
	}
	fw, err := mw.CreateFormFile("document", filename)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(content); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/bot%s/sendDocument", telegramAPIBase, cred.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := storageHTTPClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Op: "upload", Description: err.Error()}
	}
	defer resp.Body.Close()

	var env tgEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", &UpstreamError{Op: "upload", Description: "invalid response: " + err.Error()}
	}
	if !env.Ok {
		return "", &UpstreamError{Op: "upload", Description: env.Description}
	}

	if fileID := extractFileID(&env); fileID != "" {
		return ProxyPathPrefix + fileID, nil
	}
	return messageLink(cred.ChannelID, env.Result.MessageID), nil
}

// UploadToTelegraph uploads an image/small video to telegra.ph and returns a
// direct permanent link.
func UploadToTelegraph(ctx context.Context, content []byte, filename string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(content); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, telegraphUploadURL, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := storageHTTPClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Op: "upload", Description: err.Error()}
	}
	defer resp.Body.Close()

	var items []struct {
		Src string `json:"src"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil || len(items) == 0 || items[0].Src == "" {
		return "", &UpstreamError{Op: "upload", Description: "telegra.ph upload failed"}
	}
	return "https://telegra.ph" + items[0].Src, nil
}

// DirectLinkEligible reports whether the payload qualifies for the direct-link
// backend.
func DirectLinkEligible(ext string, size int) bool {
	return directLinkExts[ext] && size < directLinkMaxSize
}

// UploadFileToStorage chooses the storage backend for one upload. Eligible
// payloads attempt the direct-link backend first and fall back to the relay on
// any error; everything else goes straight to the relay. Attempts form an
// explicit ordered list, the first success wins.
func UploadFileToStorage(ctx context.Context, content []byte, filename string, cred StorageCredential) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")

	var attempts []func() (string, error)
	if DirectLinkEligible(ext, len(content)) {
		attempts = append(attempts, func() (string, error) {
			return UploadToTelegraph(ctx, content, filename)
		})
	} else if cred.BotToken == "" || cred.ChannelID == "" {
		// The relay is the only candidate; fail before any outbound call.
		return "", ErrStorageNotConfigured
	}
	attempts = append(attempts, func() (string, error) {
		return UploadToTelegram(ctx, content, filename, cred)
	})

	var lastErr error
	for _, attempt := range attempts {
		url, err := attempt()
		if err == nil {
			return url, nil
		}
		lastErr = err
		if Sugar != nil {
			Sugar.Warnf("storage backend attempt failed for %s: %v", filename, err)
		}
	}
	return "", lastErr
}

// StoreUpload runs the upload pipeline for an already validated file: image
// normalization, backend selection, and absolutization of proxy paths. The
// returned URL ends with a recognizable extension so that downstream content
// sniffing and <img>/<video> tags work even though the identifier carries none.
func StoreUpload(ctx context.Context, content []byte, filename string, cred StorageCredential, baseURL string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	content, ext = NormalizeImage(content, ext)

	stored, err := UploadFileToStorage(ctx, content, replaceExt(filename, ext), cred)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(stored, ProxyPathPrefix) {
		stored = strings.TrimSuffix(baseURL, "/") + stored + "." + ext
	}
	return stored, nil
}

// ResolveTelegramFile asks the remote API for the storage path behind a file
// reference. A non-ok envelope or missing path is reported as ErrFileNotFound.
func ResolveTelegramFile(ctx context.Context, fileID string, botToken string) (string, error) {
	if botToken == "" {
		return "", ErrStorageNotConfigured
	}
	url := fmt.Sprintf("%s/bot%s/getFile?file_id=%s", telegramAPIBase, botToken, neturl.QueryEscape(fileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := storageHTTPClient.Do(req)
	if err != nil {
		return "", &UpstreamError{Op: "resolve", Description: err.Error()}
	}
	defer resp.Body.Close()

	var env tgEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", &UpstreamError{Op: "resolve", Description: "invalid response: " + err.Error()}
	}
	if !env.Ok || env.Result.FilePath == "" {
		return "", ErrFileNotFound
	}
	return env.Result.FilePath, nil
}

// OpenTelegramFileStream opens a streaming download of a resolved file path.
// The caller owns the returned body and must close it; cancelling ctx stops
// the upstream pull.
func OpenTelegramFileStream(ctx context.Context, filePath string, botToken string) (io.ReadCloser, error) {
	url := fmt.Sprintf("%s/file/bot%s/%s", telegramAPIBase, botToken, filePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := streamHTTPClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: "stream", Description: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &UpstreamError{Op: "stream", Description: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}
	return resp.Body, nil
}

func replaceExt(filename, ext string) string {
	old := filepath.Ext(filename)
	if old == "" {
		return filename + "." + ext
	}
	return strings.TrimSuffix(filename, old) + "." + ext
}
