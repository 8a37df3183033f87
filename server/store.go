package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/segmentio/ksuid"
)

// ErrNotFound 结果不存在或 id 非法
var ErrNotFound = errors.New("result not found")

const resultExt = ".png"

// Store 把处理结果以 <ksuid>.png 的形式保存在目录中
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save 写入 PNG 数据，返回新的 id
func (s *Store) Save(data []byte) (string, error) {
	id := ksuid.New().String()
	if err := os.WriteFile(filepath.Join(s.dir, id+resultExt), data, 0o644); err != nil {
		return "", fmt.Errorf("save result: %w", err)
	}
	return id, nil
}

// Path 返回 id 对应的文件路径，id 必须是合法的 ksuid
func (s *Store) Path(id string) (string, error) {
	if _, err := ksuid.Parse(id); err != nil {
		return "", ErrNotFound
	}
	path := filepath.Join(s.dir, id+resultExt)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	return path, nil
}

// Purge 删除早于 now-retention 的结果，返回删除数量。
// 过期时间取 ksuid 中的时间戳，不依赖文件 mtime。
func (s *Store) Purge(now time.Time, retention time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read output dir: %w", err)
	}

	cutoff := now.Add(-retention)
	removed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, resultExt) {
			continue
		}
		id, err := ksuid.Parse(strings.TrimSuffix(name, resultExt))
		if err != nil {
			continue
		}
		if !id.Time().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			slog.Warn("purge result", "file", name, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}
