// Package serverless exposes the ReMember handlers as one function per
// endpoint file, the shape serverless hosts deploy. Each function checks the
// method itself and applies CORS and authentication on its own.
package serverless

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/remember/internal/server/handlers"
	"github.com/dmitrijs2005/remember/internal/server/httpapi"
)

// methods maps an HTTP method to the handler serving it.
type methods map[string]http.HandlerFunc

type Functions struct {
	h    *handlers.Handlers
	cors func(http.Handler) http.Handler
}

func New(h *handlers.Handlers, allowedOrigins []string) *Functions {
	return &Functions{h: h, cors: httpapi.CORS(allowedOrigins)}
}

// Param reads a path parameter, falling back to the query string where
// hosts pass dynamic segments such as [id].
func Param(r *http.Request, name string) string {
	if v := r.PathValue(name); v != "" {
		return v
	}
	return r.URL.Query().Get(name)
}

func (f *Functions) public(m methods) http.Handler {
	return f.cors(f.h.AccessLog(f.h.Recover(f.dispatch(m))))
}

// private checks the method before authenticating, so a wrong method is
// 405 even without a token.
func (f *Functions) private(m methods) http.Handler {
	authed := make(methods, len(m))
	for method, fn := range m {
		authed[method] = f.h.RequireAuth(fn).ServeHTTP
	}
	return f.cors(f.h.AccessLog(f.h.Recover(f.dispatch(authed))))
}

// dispatch answers 405 for methods the function does not serve.
func (f *Functions) dispatch(m methods) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fn, ok := m[strings.ToUpper(r.Method)]; ok {
			fn(w, r)
			return
		}
		f.h.MethodNotAllowed(w, r)
	})
}

func (f *Functions) Health() http.Handler {
	return f.public(methods{http.MethodGet: f.h.Health})
}

func (f *Functions) Register() http.Handler {
	return f.public(methods{http.MethodPost: f.h.Register})
}

func (f *Functions) Login() http.Handler {
	return f.public(methods{http.MethodPost: f.h.Login})
}

func (f *Functions) Me() http.Handler {
	return f.private(methods{http.MethodGet: f.h.Me})
}

func (f *Functions) VaultPasskey() http.Handler {
	return f.private(methods{http.MethodPost: f.h.SetVaultPasskey})
}

func (f *Functions) VerifyVaultPasskey() http.Handler {
	return f.private(methods{http.MethodPost: f.h.VerifyVaultPasskey})
}

func (f *Functions) Export() http.Handler {
	return f.private(methods{http.MethodPost: f.h.Export})
}

func (f *Functions) Passwords() http.Handler {
	return f.private(methods{http.MethodGet: f.h.ListPasswords, http.MethodPost: f.h.CreatePassword})
}

func (f *Functions) Password() http.Handler {
	return f.private(methods{http.MethodGet: f.h.GetPassword, http.MethodPut: f.h.UpdatePassword, http.MethodDelete: f.h.DeletePassword})
}

func (f *Functions) Tasks() http.Handler {
	return f.private(methods{http.MethodGet: f.h.ListTasks, http.MethodPost: f.h.CreateTask})
}

func (f *Functions) TaskStats() http.Handler {
	return f.private(methods{http.MethodGet: f.h.TaskStats})
}

func (f *Functions) Task() http.Handler {
	return f.private(methods{http.MethodGet: f.h.GetTask, http.MethodPut: f.h.UpdateTask, http.MethodDelete: f.h.DeleteTask})
}

func (f *Functions) Websites() http.Handler {
	return f.private(methods{http.MethodGet: f.h.ListWebsites, http.MethodPost: f.h.CreateWebsite})
}

func (f *Functions) Website() http.Handler {
	return f.private(methods{http.MethodGet: f.h.GetWebsite, http.MethodPut: f.h.UpdateWebsite, http.MethodDelete: f.h.DeleteWebsite})
}

func (f *Functions) Videos() http.Handler {
	return f.private(methods{http.MethodGet: f.h.ListVideos, http.MethodPost: f.h.CreateVideo})
}

func (f *Functions) FetchVideoInfo() http.Handler {
	return f.private(methods{http.MethodPost: f.h.FetchVideoInfo})
}

func (f *Functions) Video() http.Handler {
	return f.private(methods{http.MethodGet: f.h.GetVideo, http.MethodPut: f.h.UpdateVideo, http.MethodDelete: f.h.DeleteVideo})
}

// Mux mounts every function at its file path for local runs and hosts that
// forward all traffic to a single binary.
func (f *Functions) Mux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("/api/health", f.Health())
	mux.Handle("/api/auth/register", f.Register())
	mux.Handle("/api/auth/login", f.Login())
	mux.Handle("/api/auth/me", f.Me())
	mux.Handle("/api/auth/vault-passkey", f.VaultPasskey())
	mux.Handle("/api/auth/verify-vault-passkey", f.VerifyVaultPasskey())
	if f.h.ExportsEnabled() {
		mux.Handle("/api/auth/export", f.Export())
	}

	mux.Handle("/api/passwords", f.Passwords())
	mux.Handle("/api/passwords/{id}", f.Password())
	mux.Handle("/api/tasks", f.Tasks())
	mux.Handle("/api/tasks/stats", f.TaskStats())
	mux.Handle("/api/tasks/{id}", f.Task())
	mux.Handle("/api/websites", f.Websites())
	mux.Handle("/api/websites/{id}", f.Website())
	mux.Handle("/api/videos", f.Videos())
	mux.Handle("/api/videos/fetch-info", f.FetchVideoInfo())
	mux.Handle("/api/videos/{id}", f.Video())

	mux.Handle("/", f.cors(http.HandlerFunc(f.h.NotFound)))

	return mux
}
