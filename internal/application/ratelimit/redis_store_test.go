package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// RedisStore contra miniredis
// ──────────────────────────────────────────────────────────────────────────────

func newRedisStore(t *testing.T, prefix string) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, prefix), mr
}

func TestRedisStore_ClaveInexistente_NoFound(t *testing.T) {
	store, _ := newRedisStore(t, "test")
	_, found, err := store.Get("login:u@x.com")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_Increment_CuentaYFijaVentana(t *testing.T) {
	store, _ := newRedisStore(t, "test")

	a, err := store.Increment("login:u@x.com", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Count)

	a, err = store.Increment("login:u@x.com", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Count)

	got, found, err := store.Get("login:u@x.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, got.Count)
	assert.False(t, got.WindowReset.IsZero(), "el registro debe traer el fin de la ventana")
}

// El TTL de la clave de conteo ES la ventana: al vencer, el siguiente
// incremento arranca de 1.
func TestRedisStore_VentanaVencida_ReiniciaContador(t *testing.T) {
	store, mr := newRedisStore(t, "test")

	_, err := store.Increment("login:u@x.com", time.Minute)
	require.NoError(t, err)
	_, err = store.Increment("login:u@x.com", time.Minute)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	a, err := store.Increment("login:u@x.com", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Count, "tras vencer el TTL el conteo reinicia")
}

func TestRedisStore_Lock_ReportaCastigoYExpira(t *testing.T) {
	store, mr := newRedisStore(t, "test")

	_, err := store.Increment("otp:u@x.com", time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Lock("otp:u@x.com", 15*time.Minute))

	a, found, err := store.Get("otp:u@x.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, a.Locked(time.Now()), "el lock debe reportarse vivo")

	mr.FastForward(16 * time.Minute)

	a, found, err = store.Get("otp:u@x.com")
	require.NoError(t, err)
	if found {
		assert.False(t, a.Locked(time.Now()), "vencido el TTL del lock, la clave vuelve a Fresh")
	}
}

// El lock sobrevive aunque el conteo haya expirado: Get lo reconstruye solo
// desde la clave ":lock".
func TestRedisStore_LockSinConteo_SigueReportandose(t *testing.T) {
	store, mr := newRedisStore(t, "test")

	_, err := store.Increment("otp:u@x.com", time.Second)
	require.NoError(t, err)
	require.NoError(t, store.Lock("otp:u@x.com", time.Hour))

	mr.FastForward(2 * time.Second) // vence el conteo, no el lock

	a, found, err := store.Get("otp:u@x.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, a.Locked(time.Now()))
}

func TestRedisStore_Clear_BorraConteoYLock(t *testing.T) {
	store, _ := newRedisStore(t, "test")

	_, err := store.Increment("login:u@x.com", time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Lock("login:u@x.com", time.Hour))
	require.NoError(t, store.Clear("login:u@x.com"))

	_, found, err := store.Get("login:u@x.com")
	require.NoError(t, err)
	assert.False(t, found)
}

// Prefijos distintos no comparten espacio de claves: el gate de volumen y el
// lockout de OTP llevan contadores separados sobre el mismo Redis.
func TestRedisStore_PrefijosSeparados(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	gate := NewRedisStore(client, "ratelimit")
	lockout := NewRedisStore(client, "otplock")

	_, err := gate.Increment("otp:u@x.com", time.Minute)
	require.NoError(t, err)

	_, found, err := lockout.Get("otp:u@x.com")
	require.NoError(t, err)
	assert.False(t, found, "la misma clave lógica bajo otro prefijo no debe existir")
}

// El limitador completo funciona igual sobre el store Redis que sobre el de
// memoria: la abstracción AttemptStore es intercambiable.
func TestLimiter_SobreRedisStore(t *testing.T) {
	store, _ := newRedisStore(t, "ratelimit")
	l := New(store, testPolicies())

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow(KeyLogin, "u@x.com"))
	}
	err := l.Allow(KeyLogin, "u@x.com")
	require.Error(t, err)

	var lockErr *LockError
	assert.ErrorAs(t, err, &lockErr)
}
