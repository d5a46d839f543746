package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/yungbote/aistudio-backend/internal/logger"
	"github.com/yungbote/aistudio-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	require.NoError(t, err)
	return log
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&types.User{},
		&types.Avatar{},
		&types.VoiceAsset{},
		&types.VideoJob{},
	))
	return db
}

// fakeBucket records uploads and deletes in memory.
type fakeBucket struct {
	mu        sync.Mutex
	uploads   map[string][]byte
	deleted   []string
	uploadErr error
	deleteErr error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{uploads: map[string][]byte{}}
}

func (f *fakeBucket) UploadBuffer(_ context.Context, key string, data []byte, _ string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[key] = data
	return f.ObjectURL(key), nil
}

func (f *fakeBucket) PresignUpload(_ context.Context, fileName, _ string) (string, string, error) {
	key := "uploads/jobs/outer/user-uploads/" + fileName
	return "https://storage.test/presigned/" + fileName, key, nil
}

func (f *fakeBucket) DeleteObject(_ context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.uploads, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeBucket) ObjectURL(key string) string {
	return "https://cdn.test/video/" + key
}

// fakeOpenAI returns canned script/image responses. failEvery makes every
// n-th image call fail, for partial fan-out coverage.
type fakeOpenAI struct {
	mu        sync.Mutex
	script    string
	scriptErr error
	imageURL  string
	imageErr  error
	failEvery int
	calls     int
}

func (f *fakeOpenAI) GenerateScript(context.Context, string) (string, error) {
	if f.scriptErr != nil {
		return "", f.scriptErr
	}
	return f.script, nil
}

func (f *fakeOpenAI) GenerateImage(context.Context, string, ImageResponseFormat) (*ImageResult, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()
	if f.imageErr != nil {
		return nil, f.imageErr
	}
	if f.failEvery > 0 && n%f.failEvery == 0 {
		return nil, fmt.Errorf("image generation %d failed", n)
	}
	return &ImageResult{URL: fmt.Sprintf("%s?n=%d", f.imageURL, n)}, nil
}

type fakeSpeech struct {
	audio   []byte
	err     error
	voices  json.RawMessage
	lastReq SynthesizeRequest
}

func (f *fakeSpeech) Synthesize(_ context.Context, req SynthesizeRequest) ([]byte, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

func (f *fakeSpeech) ListVoices(context.Context) (json.RawMessage, error) {
	return f.voices, nil
}

type fakeTalk struct {
	result  *TalkResult
	err     error
	lastReq CreateTalkRequest
}

func (f *fakeTalk) CreateTalk(_ context.Context, req CreateTalkRequest) (*TalkResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}
