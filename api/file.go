package api

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"stockctl/domain"
)

// File is a JSON file-backed variant of the Memory backend. Reads are served
// from memory; every mutation is persisted with an atomic tmp+rename write.
type File struct {
	*Memory
	saveMu sync.Mutex
	path   string
}

// compile-time assertion
var _ domain.ProductAPI = (*File)(nil)

// NewFile constructs a File backend at the given path. If the file exists it
// is loaded.
func NewFile(path string) (*File, error) {
	f := &File{Memory: NewMemory(), path: path}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// no file yet; that's fine
			return f, nil
		}
		return nil, err
	}
	if len(b) == 0 {
		return f, nil
	}
	var list []domain.Product
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	f.load(list)
	return f, nil
}

func (f *File) save() error {
	f.saveMu.Lock()
	defer f.saveMu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(f.snapshot(), "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *File) CreateProduct(ctx context.Context, req domain.ProductRequest) (domain.Product, error) {
	p, err := f.Memory.CreateProduct(ctx, req)
	if err != nil {
		return domain.Product{}, err
	}
	return p, f.save()
}

func (f *File) UpdateProduct(ctx context.Context, id int64, req domain.ProductRequest) (domain.Product, error) {
	p, err := f.Memory.UpdateProduct(ctx, id, req)
	if err != nil {
		return domain.Product{}, err
	}
	return p, f.save()
}

func (f *File) DeleteProduct(ctx context.Context, id int64) (domain.Product, error) {
	p, err := f.Memory.DeleteProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return p, f.save()
}

func (f *File) SetOutOfStock(ctx context.Context, id int64) (domain.Product, error) {
	p, err := f.Memory.SetOutOfStock(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return p, f.save()
}

func (f *File) SetInStock(ctx context.Context, id int64, quantity int) (domain.Product, error) {
	p, err := f.Memory.SetInStock(ctx, id, quantity)
	if err != nil {
		return domain.Product{}, err
	}
	return p, f.save()
}
