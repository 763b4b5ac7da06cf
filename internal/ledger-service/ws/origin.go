package ws

import (
	"net/http"
	"strings"
)

// AllowOrigins monta o CheckOrigin do upgrader a partir de uma lista de origens.
// "*" libera todas. Lista vazia devolve nil e o gorilla aplica a checagem de mesma origem.
// Requisições sem header Origin (clientes fora do browser) são aceitas.
func AllowOrigins(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.ToLower(strings.TrimRight(o, "/"))] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.ToLower(origin)]
		return ok
	}
}
