package storage_test

import "github.com/daap14/questadmin/internal/config"

func testConfig(driver string) *config.Config {
	return &config.Config{StoreDriver: driver}
}
