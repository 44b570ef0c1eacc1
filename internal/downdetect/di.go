package downdetect

import (
	"context"

	"logkeeper/internal/storage"
	cache_utils "logkeeper/internal/util/cache"
)

var downdetectService = NewDowndetectService(checkDatabase, checkCache)
var downdetectController = &DowndetectController{
	downdetectService,
}

func GetDowndetectService() *DowndetectService {
	return downdetectService
}

func GetDowndetectController() *DowndetectController {
	return downdetectController
}

func checkDatabase(ctx context.Context) error {
	return storage.GetDb().WithContext(ctx).Exec("SELECT 1").Error
}

func checkCache(_ context.Context) error {
	return cache_utils.TestCacheConnection()
}
