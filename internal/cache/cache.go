package cache

import (
	"crypto/tls"
	"logkeeper/internal/config"
	"sync"

	"github.com/valkey-io/valkey-go"
)

var (
	once         sync.Once
	valkeyClient valkey.Client
	clientErr    error
)

// GetCache returns the shared Valkey client. It panics when the client
// cannot be created, callers that must survive a missing cache use
// GetCacheOrError instead.
func GetCache() valkey.Client {
	client, err := GetCacheOrError()
	if err != nil {
		panic(err)
	}

	return client
}

func GetCacheOrError() (valkey.Client, error) {
	once.Do(func() {
		env := config.GetEnv()

		options := valkey.ClientOption{
			InitAddress: []string{env.ValkeyHost + ":" + env.ValkeyPort},
			Password:    env.ValkeyPassword,
			Username:    env.ValkeyUsername,
		}

		if env.ValkeyIsSsl {
			options.TLSConfig = &tls.Config{
				ServerName: env.ValkeyHost,
			}
		}

		valkeyClient, clientErr = valkey.NewClient(options)
	})

	return valkeyClient, clientErr
}
