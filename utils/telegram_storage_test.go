package utils

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withEndpoints(t *testing.T, telegram, telegraph string) {
	t.Helper()
	prevTG, prevTP := telegramAPIBase, telegraphUploadURL
	if telegram != "" {
		telegramAPIBase = telegram
	}
	if telegraph != "" {
		telegraphUploadURL = telegraph
	}
	t.Cleanup(func() {
		telegramAPIBase = prevTG
		telegraphUploadURL = prevTP
	})
}

func TestDirectLinkEligible(t *testing.T) {
	cases := []struct {
		name string
		ext  string
		size int
		want bool
	}{
		{"small jpg", "jpg", 1024, true},
		{"small png", "png", 1024, true},
		{"small gif", "gif", 1024, true},
		{"small mp4", "mp4", 1024, true},
		{"jpg at limit", "jpg", 5 << 20, false},
		{"jpg just below limit", "jpg", 5<<20 - 1, true},
		{"mov never eligible", "mov", 1024, false},
		{"webm never eligible", "webm", 1024, false},
		{"heic never eligible", "heic", 1024, false},
		{"unknown ext", "bin", 1024, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DirectLinkEligible(tc.ext, tc.size))
		})
	}
}

func TestExtractFileID(t *testing.T) {
	t.Run("document wins over video and photo", func(t *testing.T) {
		var env tgEnvelope
		env.Result.Document = &tgFileRef{FileID: "doc1"}
		env.Result.Video = &tgFileRef{FileID: "vid1"}
		env.Result.Photo = []tgFileRef{{FileID: "ph1", Width: 100, Height: 100}}
		assert.Equal(t, "doc1", extractFileID(&env))
	})

	t.Run("video wins over photo", func(t *testing.T) {
		var env tgEnvelope
		env.Result.Video = &tgFileRef{FileID: "vid1"}
		env.Result.Photo = []tgFileRef{{FileID: "ph1", Width: 100, Height: 100}}
		assert.Equal(t, "vid1", extractFileID(&env))
	})

	t.Run("largest photo variant", func(t *testing.T) {
		var env tgEnvelope
		env.Result.Photo = []tgFileRef{
			{FileID: "thumb", Width: 90, Height: 90},
			{FileID: "full", Width: 1280, Height: 720},
			{FileID: "mid", Width: 320, Height: 320},
		}
		assert.Equal(t, "full", extractFileID(&env))
	})

	t.Run("empty envelope", func(t *testing.T) {
		var env tgEnvelope
		assert.Equal(t, "", extractFileID(&env))
	})
}

func TestMessageLink(t *testing.T) {
	assert.Equal(t, "https://t.me/mychannel/42", messageLink("@mychannel", 42))
	assert.Equal(t, "https://t.me/c/123456/7", messageLink("-100123456", 7))
}

func TestUploadToTelegram(t *testing.T) {
	t.Run("returns proxy path for relayed document", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.True(t, strings.HasSuffix(r.URL.Path, "/sendDocument"))
			require.NoError(t, r.ParseMultipartForm(32<<20))
			assert.Equal(t, "@dacha", r.FormValue("chat_id"))
			_, fh, err := r.FormFile("document")
			require.NoError(t, err)
			assert.Equal(t, "photo.jpg", fh.Filename)
			io.WriteString(w, `{"ok":true,"result":{"message_id":10,"document":{"file_id":"ABC123"}}}`)
		}))
		defer srv.Close()
		withEndpoints(t, srv.URL, "")

		url, err := UploadToTelegram(context.Background(), []byte("data"), "photo.jpg",
			StorageCredential{BotToken: "tok", ChannelID: "@dacha"})
		require.NoError(t, err)
		assert.Equal(t, "/proxy/ABC123", url)
	})

	t.Run("falls back to message link without file id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"ok":true,"result":{"message_id":55}}`)
		}))
		defer srv.Close()
		withEndpoints(t, srv.URL, "")

		url, err := UploadToTelegram(context.Background(), []byte("data"), "a.bin",
			StorageCredential{BotToken: "tok", ChannelID: "@dacha"})
		require.NoError(t, err)
		assert.Equal(t, "https://t.me/dacha/55", url)
	})

	t.Run("surfaces upstream description on not-ok envelope", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"ok":false,"description":"Bad Request: chat not found"}`)
		}))
		defer srv.Close()
		withEndpoints(t, srv.URL, "")

		_, err := UploadToTelegram(context.Background(), []byte("data"), "a.bin",
			StorageCredential{BotToken: "tok", ChannelID: "@nope"})
		var ue *UpstreamError
		require.ErrorAs(t, err, &ue)
		assert.Contains(t, ue.Description, "chat not found")
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := UploadToTelegram(context.Background(), []byte("data"), "a.bin", StorageCredential{})
		assert.ErrorIs(t, err, ErrStorageNotConfigured)
	})
}

func TestUploadToTelegraph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		_, fh, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "photo.jpg", fh.Filename)
		json.NewEncoder(w).Encode([]map[string]string{{"src": "/file/abcdef.jpg"}})
	}))
	defer srv.Close()
	withEndpoints(t, "", srv.URL)

	url, err := UploadToTelegraph(context.Background(), []byte("data"), "photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://telegra.ph/file/abcdef.jpg", url)
}

func TestUploadFileToStorage(t *testing.T) {
	t.Run("eligible file uses direct link first", func(t *testing.T) {
		var telegramCalled bool
		tg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			telegramCalled = true
			io.WriteString(w, `{"ok":true,"result":{"message_id":1,"document":{"file_id":"X"}}}`)
		}))
		defer tg.Close()
		tp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]map[string]string{{"src": "/file/direct.jpg"}})
		}))
		defer tp.Close()
		withEndpoints(t, tg.URL, tp.URL)

		url, err := UploadFileToStorage(context.Background(), []byte("small"), "photo.jpg",
			StorageCredential{BotToken: "tok", ChannelID: "@c"})
		require.NoError(t, err)
		assert.Equal(t, "https://telegra.ph/file/direct.jpg", url)
		assert.False(t, telegramCalled, "relay must not be called when direct link succeeds")
	})

	t.Run("direct link failure falls back to relay", func(t *testing.T) {
		tp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer tp.Close()
		tg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"ok":true,"result":{"message_id":1,"document":{"file_id":"FB1"}}}`)
		}))
		defer tg.Close()
		withEndpoints(t, tg.URL, tp.URL)

		url, err := UploadFileToStorage(context.Background(), []byte("small"), "photo.jpg",
			StorageCredential{BotToken: "tok", ChannelID: "@c"})
		require.NoError(t, err)
		assert.Equal(t, "/proxy/FB1", url)
	})

	t.Run("ineligible file goes straight to relay", func(t *testing.T) {
		var telegraphCalled bool
		tp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			telegraphCalled = true
		}))
		defer tp.Close()
		tg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"ok":true,"result":{"message_id":1,"video":{"file_id":"MOV1"}}}`)
		}))
		defer tg.Close()
		withEndpoints(t, tg.URL, tp.URL)

		url, err := UploadFileToStorage(context.Background(), []byte("clip"), "clip.mov",
			StorageCredential{BotToken: "tok", ChannelID: "@c"})
		require.NoError(t, err)
		assert.Equal(t, "/proxy/MOV1", url)
		assert.False(t, telegraphCalled)
	})

	t.Run("relay-only without credentials fails before any call", func(t *testing.T) {
		tg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no outbound call expected")
		}))
		defer tg.Close()
		withEndpoints(t, tg.URL, "")

		_, err := UploadFileToStorage(context.Background(), []byte("clip"), "clip.mov", StorageCredential{})
		assert.ErrorIs(t, err, ErrStorageNotConfigured)
	})
}

func TestStoreUpload(t *testing.T) {
	t.Run("absolutizes proxy path and appends extension", func(t *testing.T) {
		tg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"ok":true,"result":{"message_id":3,"document":{"file_id":"ABC123"}}}`)
		}))
		defer tg.Close()
		withEndpoints(t, tg.URL, "")

		// 6 MiB mp4: over the direct-link limit, must go through the relay.
		content := make([]byte, 6<<20)
		url, err := StoreUpload(context.Background(), content, "tour.mp4",
			StorageCredential{BotToken: "tok", ChannelID: "@c"}, "https://api.example.com/")
		require.NoError(t, err)
		assert.Equal(t, "https://api.example.com/proxy/ABC123.mp4", url)
	})

	t.Run("direct links are returned untouched", func(t *testing.T) {
		tp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]map[string]string{{"src": "/file/pic.jpg"}})
		}))
		defer tp.Close()
		withEndpoints(t, "", tp.URL)

		url, err := StoreUpload(context.Background(), []byte("x"), "pic.jpg",
			StorageCredential{}, "https://api.example.com")
		require.NoError(t, err)
		assert.Equal(t, "https://telegra.ph/file/pic.jpg", url)
	})
}

func TestResolveTelegramFile(t *testing.T) {
	t.Run("resolves file path", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.True(t, strings.HasSuffix(r.URL.Path, "/getFile"))
			assert.Equal(t, "ABC123", r.URL.Query().Get("file_id"))
			io.WriteString(w, `{"ok":true,"result":{"file_path":"documents/file_1.jpg"}}`)
		}))
		defer srv.Close()
		withEndpoints(t, srv.URL, "")

		path, err := ResolveTelegramFile(context.Background(), "ABC123", "tok")
		require.NoError(t, err)
		assert.Equal(t, "documents/file_1.jpg", path)
	})

	t.Run("reserved characters in the reference survive the query", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// The raw reference must arrive as the single file_id value,
			// not split into extra parameters.
			assert.Equal(t, "AB&file_id=evil?x", r.URL.Query().Get("file_id"))
			assert.Len(t, r.URL.Query(), 1)
			io.WriteString(w, `{"ok":true,"result":{"file_path":"documents/file_2.jpg"}}`)
		}))
		defer srv.Close()
		withEndpoints(t, srv.URL, "")

		path, err := ResolveTelegramFile(context.Background(), "AB&file_id=evil?x", "tok")
		require.NoError(t, err)
		assert.Equal(t, "documents/file_2.jpg", path)
	})

	t.Run("not-ok envelope maps to not found", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"ok":false,"description":"Bad Request: file not found"}`)
		}))
		defer srv.Close()
		withEndpoints(t, srv.URL, "")

		_, err := ResolveTelegramFile(context.Background(), "nope", "tok")
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("transport failure maps to upstream error", func(t *testing.T) {
		srv := httptest.NewServer(nil)
		srv.Close() // connection refused from here on
		withEndpoints(t, srv.URL, "")

		_, err := ResolveTelegramFile(context.Background(), "ABC", "tok")
		var ue *UpstreamError
		assert.ErrorAs(t, err, &ue)
	})
}

func TestOpenTelegramFileStream(t *testing.T) {
	t.Run("streams content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/file/bottok/documents/file_1.jpg", r.URL.Path)
			io.WriteString(w, "payload")
		}))
		defer srv.Close()
		withEndpoints(t, srv.URL, "")

		body, err := OpenTelegramFileStream(context.Background(), "documents/file_1.jpg", "tok")
		require.NoError(t, err)
		defer body.Close()
		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	})

	t.Run("non-200 maps to upstream error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()
		withEndpoints(t, srv.URL, "")

		_, err := OpenTelegramFileStream(context.Background(), "missing", "tok")
		var ue *UpstreamError
		assert.ErrorAs(t, err, &ue)
	})
}

func TestReplaceExt(t *testing.T) {
	assert.Equal(t, "photo.jpg", replaceExt("photo.heic", "jpg"))
	assert.Equal(t, "archive.tar.jpg", replaceExt("archive.tar.gz", "jpg"))
	assert.Equal(t, "noext.jpg", replaceExt("noext", "jpg"))
}
