//go:build cgo && (linux || darwin)

package loader

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>

// Libraries stay mapped after dlclose: OpenMP worker threads started
// by a parallel evaluate keep running code of the runtime the library
// pulled in.
static void* fc_dlopen(const char* path) {
	return dlopen(path, RTLD_NOW | RTLD_LOCAL | RTLD_NODELETE);
}

static const char* fc_dlerror(void) {
	return dlerror();
}

static void* fc_dlsym(void* h, const char* name, const char** err) {
	dlerror();
	void* p = dlsym(h, name);
	const char* e = dlerror();
	*err = e;
	return e ? NULL : p;
}

static int fc_dlclose(void* h) {
	return dlclose(h);
}

typedef double (*fc_evaluate_fn)(float*, int);

static double fc_evaluate(void* fn, float* f, int worker_count) {
	return ((fc_evaluate_fn)fn)(f, worker_count);
}
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/pbanos/forestc/codegen"
	"github.com/pkg/errors"
)

/*
Library is a loaded ensemble library. It is safe for concurrent use;
Close waits for running evaluations to finish.
*/
type Library struct {
	path        string
	numFeatures int
	handle      unsafe.Pointer
	evaluate    unsafe.Pointer
	lock        sync.RWMutex
}

/*
Open loads the library at path and resolves its evaluate function.
numFeatures is the minimum length of the feature vectors it accepts,
as given by the ensemble's NumFeatures.
*/
func Open(path string, numFeatures int) (*Library, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	h := C.fc_dlopen(cpath)
	if h == nil {
		return nil, errors.Errorf("loading %s: dlopen: %s", path, C.GoString(C.fc_dlerror()))
	}
	cname := C.CString(codegen.EvaluateFuncName)
	defer C.free(unsafe.Pointer(cname))
	var cerr *C.char
	fn := C.fc_dlsym(h, cname, &cerr)
	if fn == nil {
		msg := "symbol is null"
		if cerr != nil {
			msg = C.GoString(cerr)
		}
		C.fc_dlclose(h)
		return nil, errors.Errorf("loading %s: dlsym %s: %s", path, codegen.EvaluateFuncName, msg)
	}
	return &Library{path: path, numFeatures: numFeatures, handle: h, evaluate: fn}, nil
}

// Path returns the path the library was loaded from.
func (l *Library) Path() string {
	return l.path
}

// NumFeatures returns the minimum length of the feature vectors the
// library accepts.
func (l *Library) NumFeatures() int {
	return l.numFeatures
}

/*
Evaluate runs the ensemble on the feature vector f with up to workers
threads and returns its prediction. Workers at or below 1 accumulate
the trees sequentially in order.
*/
func (l *Library) Evaluate(f []float32, workers int) (float64, error) {
	if err := checkInput(len(f), l.numFeatures); err != nil {
		return 0, err
	}
	l.lock.RLock()
	defer l.lock.RUnlock()
	if l.handle == nil {
		return 0, ErrClosed
	}
	var p *C.float
	if len(f) > 0 {
		p = (*C.float)(unsafe.Pointer(&f[0]))
	}
	return float64(C.fc_evaluate(l.evaluate, p, C.int(workers))), nil
}

/*
Close releases the library handle. Its code stays mapped in the
process, as the OpenMP threads of earlier parallel evaluations may
still run in it. Closing twice is a no-op.
*/
func (l *Library) Close() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.handle == nil {
		return nil
	}
	rc := C.fc_dlclose(l.handle)
	l.handle, l.evaluate = nil, nil
	if rc != 0 {
		return errors.Errorf("unloading %s: dlclose: %s", l.path, C.GoString(C.fc_dlerror()))
	}
	return nil
}
