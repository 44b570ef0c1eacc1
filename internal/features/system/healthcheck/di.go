package system_healthcheck

import (
	"logkeeper/internal/config"
	"logkeeper/internal/downdetect"
)

var healthcheckController *HealthcheckController

func GetHealthcheckController() *HealthcheckController {
	if healthcheckController == nil {
		healthcheckController = &HealthcheckController{
			NewHealthcheckService(downdetect.GetDowndetectService(), config.GetEnv().BackendRootPath),
		}
	}

	return healthcheckController
}
