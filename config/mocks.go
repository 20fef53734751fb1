package config

import (
	"github.com/mongohouse/mongo-data-apis/log"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type ConfigMock struct {
	mock.Mock
}

func NewConfigMock() *ConfigMock {
	return &ConfigMock{}
}

func (o *ConfigMock) Default() *ConfigMock {
	o.On("SingleDatabase").Return("")
	o.On("ExcludedDatabases").Return([]string{"admin", "local"})
	o.On("PageSize").Return(int64(10))
	o.On("FieldRedactionBytes").Return(16 * 1024)
	o.On("DocumentRedactionBytes").Return(100 * 1024)
	o.On("SupportedOperations").Return(MutatingOperations)
	o.On("Naming").Return(NewIdentityNaming())
	o.On("Logger").Return(log.NewZapLogger(zap.NewExample()))
	return o
}

func (o *ConfigMock) SingleDatabase() string {
	args := o.Called()
	return args.String(0)
}

func (o *ConfigMock) ExcludedDatabases() []string {
	args := o.Called()
	return args.Get(0).([]string)
}

func (o *ConfigMock) PageSize() int64 {
	args := o.Called()
	return args.Get(0).(int64)
}

func (o *ConfigMock) FieldRedactionBytes() int {
	args := o.Called()
	return args.Int(0)
}

func (o *ConfigMock) DocumentRedactionBytes() int {
	args := o.Called()
	return args.Int(0)
}

func (o *ConfigMock) SupportedOperations() Operations {
	args := o.Called()
	return args.Get(0).(Operations)
}

func (o *ConfigMock) Naming() NamingConvention {
	args := o.Called()
	return args.Get(0).(NamingConvention)
}

func (o *ConfigMock) Logger() log.Logger {
	args := o.Called()
	return args.Get(0).(log.Logger)
}
