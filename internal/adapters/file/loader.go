package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/aretw0/colloquy/internal/compiler"
	"github.com/aretw0/colloquy/pkg/domain"
)

// Loader implements ports.ConversationLoader over YAML documents on disk.
// Conversations are indexed by the id declared inside each document, not by
// file name.
type Loader struct {
	root     string
	compiler *compiler.Compiler

	mu    sync.RWMutex
	convs map[string]*domain.Conversation
	files map[string]string
}

// NewLoader compiles every *.yaml and *.yml file under root. root may also
// name a single document.
func NewLoader(root string, c *compiler.Compiler) (*Loader, error) {
	if c == nil {
		c = compiler.New()
	}
	l := &Loader{root: root, compiler: c}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Reload recompiles the documents. On error the previous set stays in place.
func (l *Loader) Reload() error {
	paths, err := documents(l.root)
	if err != nil {
		return err
	}
	convs := make(map[string]*domain.Conversation, len(paths))
	files := make(map[string]string, len(paths))
	var errs []error
	for _, p := range paths {
		conv, err := l.compiler.CompileFile(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if prev, dup := files[conv.ID]; dup {
			errs = append(errs, fmt.Errorf("%s: conversation %q already defined in %s", p, conv.ID, prev))
			continue
		}
		convs[conv.ID] = conv
		files[conv.ID] = p
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	l.mu.Lock()
	l.convs, l.files = convs, files
	l.mu.Unlock()
	return nil
}

func documents(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("conversation path: %w", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}
	var paths []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// Load returns a compiled conversation.
func (l *Loader) Load(ctx context.Context, id string) (*domain.Conversation, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	conv, ok := l.convs[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, domain.ErrConversationNotFound)
	}
	return conv, nil
}

// List returns the conversation ids, sorted.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.convs))
	for id := range l.convs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Path returns the file a conversation was read from.
func (l *Loader) Path(id string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	p, ok := l.files[id]
	return p, ok
}
