package cache

import (
	"net/url"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "endpoint only",
			key:  Key{Endpoint: "/pokemon/Bulbasaur/"},
			want: "dex:pokemon/bulbasaur",
		},
		{
			name: "sorted query params",
			key: Key{
				Endpoint: "/pokemon",
				Query:    url.Values{"offset": {"0"}, "limit": {"1025"}},
			},
			want: "dex:pokemon:limit=1025:offset=0",
		},
		{
			name: "multi-valued param sorted",
			key: Key{
				Endpoint: "/type",
				Query:    url.Values{"name": {"water", "fire"}},
			},
			want: "dex:type:name=fire,water",
		},
		{
			name: "empty endpoint",
			key:  Key{},
			want: "dex",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_StringDeterministic(t *testing.T) {
	a := Key{Endpoint: "/pokemon", Query: url.Values{"a": {"1"}, "b": {"2"}, "c": {"3"}}}
	first := a.String()
	for i := 0; i < 20; i++ {
		if got := a.String(); got != first {
			t.Fatalf("String() not deterministic: %q vs %q", got, first)
		}
	}
}
