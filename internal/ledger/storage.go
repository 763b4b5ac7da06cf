package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// KV é a primitiva de leitura/escrita que o host entrega ao ledger a cada chamada.
// Get devolve ErrNotFound quando a chave não existe.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
}

// Item é um registro singleton tipado, serializado em JSON sob uma chave fixa
type Item[T any] struct {
	key string
}

func NewItem[T any](key string) Item[T] { return Item[T]{key: key} }

// Key retorna a chave física do registro
func (i Item[T]) Key() string { return i.key }

// Load carrega o registro; falha com ErrNotFound se ausente
func (i Item[T]) Load(kv KV) (T, error) {
	v, ok, err := i.MayLoad(kv)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, fmt.Errorf("%w: %s", ErrNotFound, i.key)
	}
	return v, nil
}

// MayLoad carrega o registro informando se ele existe
func (i Item[T]) MayLoad(kv KV) (T, bool, error) {
	var v T
	b, err := kv.Get([]byte(i.key))
	if errors.Is(err, ErrNotFound) {
		return v, false, nil
	}
	if err != nil {
		return v, false, &StoreError{Op: "get", Key: i.key, Err: err}
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, false, &StoreError{Op: "decode", Key: i.key, Err: err}
	}
	return v, true, nil
}

// Save grava o registro incondicionalmente
func (i Item[T]) Save(kv KV, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return &StoreError{Op: "encode", Key: i.key, Err: err}
	}
	if err := kv.Set([]byte(i.key), b); err != nil {
		return &StoreError{Op: "set", Key: i.key, Err: err}
	}
	return nil
}

// Update faz load, aplica fn e salva o resultado como um único passo lógico.
// Se fn falhar nada é gravado.
func (i Item[T]) Update(kv KV, fn func(T) (T, error)) (T, error) {
	cur, err := i.Load(kv)
	if err != nil {
		return cur, err
	}
	next, err := fn(cur)
	if err != nil {
		return cur, err
	}
	return next, i.Save(kv, next)
}

// Map é um mapeamento de registros tipados indexado por identidades opacas
type Map[T any] struct {
	prefix string
}

func NewMap[T any](prefix string) Map[T] { return Map[T]{prefix: prefix} }

// At devolve o Item correspondente às partes da chave.
// Cada parte é prefixada pelo tamanho, então ("ab","c") e ("a","bc") não colidem.
func (m Map[T]) At(parts ...string) Item[T] {
	var sb strings.Builder
	sb.WriteString(m.prefix)
	for _, p := range parts {
		fmt.Fprintf(&sb, "/%d:%s", len(p), p)
	}
	return Item[T]{key: sb.String()}
}
