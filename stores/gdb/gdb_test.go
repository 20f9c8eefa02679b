package gdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestDSN(t *testing.T) {
	c := &Config{User: "root", Password: "pw", Host: "127.0.0.1", Database: "easyswap"}
	assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/easyswap?charset=utf8mb4&parseTime=True&loc=Local", c.DSN())

	c.Port = 13306
	assert.Contains(t, c.DSN(), "tcp(127.0.0.1:13306)")
}

func TestEnabled(t *testing.T) {
	var c *Config
	assert.False(t, c.Enabled())
	assert.False(t, (&Config{}).Enabled())
	assert.True(t, (&Config{Host: "db"}).Enabled())
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logger.Error, (&Config{}).logLevel())
	assert.Equal(t, logger.Info, (&Config{LogLevel: "info"}).logLevel())
}
