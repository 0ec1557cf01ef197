package media

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Preview is the transient local view of a selected file, distinct from the
// persisted representation. The holder must call Release when the selection
// changes or the holder goes away; the handle is dead afterwards.
type Preview struct {
	url      string
	released bool
	mtx      sync.Mutex
}

func (p *Preview) URL() string {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if p.released {
		return ""
	}
	return p.url
}

func (p *Preview) Release() {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	p.released = true
}

func (p *Preview) Released() bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.released
}

func NewPreview(file File) *Preview {
	return &Preview{
		url: fmt.Sprintf("preview://%s/%s", uuid.New().String(), objectName(file.Name)),
	}
}
