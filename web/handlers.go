// Package web serves sprite sheets of the series directories below a root
// directory.
package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/net/trace"
	"golang.org/x/sync/singleflight"

	"badc0de.net/pkg/go-spritesheet/compositor"
	"badc0de.net/pkg/go-spritesheet/imagefile"
	"badc0de.net/pkg/go-spritesheet/merge"
	"badc0de.net/pkg/go-spritesheet/paths"
)

// Handler serves the sheets of the series directories below a root directory.
// A sheet written earlier by the merge route is not taken as a frame.
type Handler struct {
	root   string
	loader compositor.Loader

	// renders collapses concurrent requests for the same series.
	renders singleflight.Group
}

// NewHandler constructs a web handler for series directories directly inside
// root.
func NewHandler(root string) *Handler {
	return &Handler{
		root:   root,
		loader: imagefile.Loader{},
	}
}

// rendered is an encoded sheet along with its plan.
type rendered struct {
	plan        *merge.Plan
	contentType string
	body        []byte
}

// seriesDir maps the name route variable to a directory below root.
func (h *Handler) seriesDir(r *http.Request) (string, error) {
	name := mux.Vars(r)["name"]
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", errors.Errorf("bad series name %q", name)
	}
	dir := filepath.Join(h.root, name)
	if !paths.IsDir(dir) {
		return "", errors.Wrapf(os.ErrNotExist, "series %q", name)
	}
	return dir, nil
}

// etag derives a weak entity tag from the names, sizes and modification
// times of the series' files.
func etag(dir string) (string, error) {
	files, err := paths.Eligible(dir)
	if err != nil {
		return "", err
	}
	generation := 1 // bump if the way we generate sheets changes
	hash := fnv.New64a()
	for _, f := range files {
		fi, err := os.Stat(f)
		if err != nil {
			return "", errors.Wrap(err, "computing etag")
		}
		fmt.Fprintf(hash, "%s:%d:%d;", filepath.Base(f), fi.Size(), fi.ModTime().UnixNano())
	}
	return fmt.Sprintf(`W/"sheet:%d:%016x"`, generation, hash.Sum64()), nil
}

func (h *Handler) render(dir string) (*rendered, error) {
	v, err, shared := h.renders.Do(dir, func() (interface{}, error) {
		p, err := merge.NewPlanSkippingSheet(dir)
		if err != nil {
			return nil, err
		}
		img, err := p.Render(h.loader, nil)
		if err != nil {
			return nil, err
		}
		ct, err := imagefile.ContentType(p.Name.Ext)
		if err != nil {
			return nil, err
		}
		buf := &bytes.Buffer{}
		if err := imagefile.Encode(buf, img, p.Name.Ext); err != nil {
			return nil, err
		}
		return &rendered{plan: p, contentType: ct, body: buf.Bytes()}, nil
	})
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("rendered %q (shared: %v)", dir, shared)
	return v.(*rendered), nil
}

// httpError reports err with a status code matching its kind.
func httpError(w http.ResponseWriter, tr trace.Trace, err error) {
	tr.LazyPrintf("error: %v", err)
	tr.SetError()

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, merge.ErrNoEligibleImages):
		code = http.StatusNotFound
	case errors.Is(err, merge.ErrNamingFormat):
		code = http.StatusUnprocessableEntity
	}
	if code == http.StatusInternalServerError {
		glog.Errorf("web: %v", err)
	}
	http.Error(w, err.Error(), code)
}

func (h *Handler) sheetHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.sheet", r.URL.Path)
	defer tr.Finish()

	dir, err := h.seriesDir(r)
	if err != nil {
		httpError(w, tr, err)
		return
	}

	tag, err := etag(dir)
	if err != nil {
		httpError(w, tr, err)
		return
	}
	if r.Header.Get("If-None-Match") == tag {
		tr.LazyPrintf("not modified")
		w.Header().Set("Cache-Control", "public; max-age=600")
		w.Header().Set("ETag", tag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	out, err := h.render(dir)
	if err != nil {
		httpError(w, tr, err)
		return
	}
	tr.LazyPrintf("%d images, grid %v, %d bytes", len(out.plan.Sources), out.plan.Shape, len(out.body))

	w.Header().Set("Content-Type", out.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", out.plan.Name.SheetName()))
	w.Header().Set("Cache-Control", "public; max-age=600")
	w.Header().Set("ETag", tag)
	w.WriteHeader(http.StatusOK)
	w.Write(out.body)
}

type layoutResponse struct {
	*merge.Index
	DataURL string `json:"data_url,omitempty"`
}

func (h *Handler) layoutHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.layout", r.URL.Path)
	defer tr.Finish()

	dir, err := h.seriesDir(r)
	if err != nil {
		httpError(w, tr, err)
		return
	}

	var resp layoutResponse
	if r.URL.Query().Get("inline") == "1" {
		out, err := h.render(dir)
		if err != nil {
			httpError(w, tr, err)
			return
		}
		byt, err := dataurl.New(out.body, out.contentType).MarshalText()
		if err != nil {
			httpError(w, tr, errors.Wrap(err, "encoding data url"))
			return
		}
		resp.Index = out.plan.Index()
		resp.DataURL = string(byt)
	} else {
		p, err := merge.NewPlanSkippingSheet(dir)
		if err != nil {
			httpError(w, tr, err)
			return
		}
		resp.Index = p.Index()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(&resp); err != nil {
		glog.Errorf("web: writing layout: %v", err)
	}
}

type mergeResponse struct {
	Output string `json:"output"`
	Index  string `json:"index,omitempty"`
}

func (h *Handler) mergeHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.merge", r.URL.Path)
	defer tr.Finish()

	dir, err := h.seriesDir(r)
	if err != nil {
		httpError(w, tr, err)
		return
	}

	writeIndex := r.URL.Query().Get("index") == "1"
	v, err, _ := h.renders.Do(fmt.Sprintf("merge:%v:%s", writeIndex, dir), func() (interface{}, error) {
		return merge.Run(dir, merge.Options{
			Loader:     h.loader,
			WriteIndex: writeIndex,
			SkipSheet:  true,
		})
	})
	if err != nil {
		httpError(w, tr, err)
		return
	}
	res := v.(*merge.Result)
	tr.LazyPrintf("wrote %q", res.Output)

	resp := mergeResponse{Output: filepath.Base(res.Output)}
	if res.Index != "" {
		resp.Index = filepath.Base(res.Index)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(&resp)
}

// RegisterRoutes registers the sheet, layout and merge routes on r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/sheet/{name}", h.sheetHandler).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/layout/{name}", h.layoutHandler).Methods(http.MethodGet)
	r.HandleFunc("/merge/{name}", h.mergeHandler).Methods(http.MethodPost)
}

// Router returns a new router with the handler's routes registered.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return r
}
