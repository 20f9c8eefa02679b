package utils

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var (
	// validatorM 自定义验证器
	// key: 验证规则名称, value: 验证函数
	validatorM map[string]validator.Func
	// patternM 正则验证规则
	patternM map[string]*regexp.Regexp
)

func init() {
	validatorM = map[string]validator.Func{
		"eth_addr": regexpValidator, // 以太坊地址
		"ether":    regexpValidator, // 十进制 ether 金额
	}
	patternM = map[string]*regexp.Regexp{
		// 0x开头, 后接40位16进制字符
		"eth_addr": regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`),
		// 最多 18 位小数
		"ether": regexp.MustCompile(`^[0-9]+(\.[0-9]{1,18})?$`),
	}
}

// regexpValidator 根据 tag 名称查找对应的正则表达式并匹配
var regexpValidator validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	pattern, ok := patternM[fl.GetTag()]
	if !ok {
		return false
	}
	return pattern.MatchString(s)
}

// RegisterValidators 把自定义规则注册到 validator 实例
func RegisterValidators(v *validator.Validate) error {
	for tag, fn := range validatorM {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return errors.Wrapf(err, "failed on register validator %s", tag)
		}
	}
	return nil
}

// RegisterGinValidators 注册到 gin 的默认 binding 验证器
func RegisterGinValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not validator/v10")
	}
	return RegisterValidators(v)
}
