package platform

import (
	"net/http"
)

// HTTPHandler serves h through the platform boundary. It is the front-end
// used by the Vercel Go runtime.
func HTTPHandler(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Clone()
		if r.Host != "" {
			header.Set("Host", r.Host)
		}
		resp := h.Handle(r.Context(), RawRequest{
			Method:        r.Method,
			Path:          r.URL.RequestURI(),
			Header:        header,
			Body:          r.Body,
			ContentLength: r.ContentLength,
		})
		writeResponse(w, resp)
	})
}

func writeResponse(w http.ResponseWriter, resp RawResponse) {
	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}
