package ports

import "github.com/vinylmint/vinyld/internal/core/domain"

type RepoManager interface {
	Assets() domain.AssetRepository
	Close()
}
