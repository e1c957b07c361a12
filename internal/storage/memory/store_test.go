package memory

import (
	"testing"

	"github.com/benbeisheim/relaychess-backend/internal/storage"
	"github.com/benbeisheim/relaychess-backend/internal/storage/storagetest"
)

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store {
		return New()
	})
}
