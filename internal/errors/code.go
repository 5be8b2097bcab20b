package errors

import (
	"fmt"
	"strconv"

	kerrors "github.com/go-kratos/kratos/v2/errors"
)

// Household Ledger 错误码定义
// 错误码格式：SSMMEE (6位数字)
//   SS: 服务标识，Household Ledger 固定为 21
//   MM: 模块标识，按业务划分
//   EE: 模块内错误序号
//
// 模块划分：
//   01: 用户枚举
//   02: 家庭数据（住房、服务商、车辆）
//   03: 持久化
//   04: 回填任务
//   05: 计费配置
//   06-99: 预留扩展
//
// 错误码放在 metadata["code"] 中，HTTP 状态码沿用 kratos 的约定。

// 用户枚举模块错误码 (210100-210199)
const (
	// ErrCodeListUsersFailed 获取用户列表失败
	ErrCodeListUsersFailed = 210101
)

// 家庭数据模块错误码 (210200-210299)
const (
	// ErrCodeUserNotFound 用户不存在
	ErrCodeUserNotFound = 210201
	// ErrCodeHousingMissing 缺少住房信息
	ErrCodeHousingMissing = 210202
	// ErrCodeProviderMissing 缺少服务商信息
	ErrCodeProviderMissing = 210203
	// ErrCodeUnknownGasType 未知的燃气类型
	ErrCodeUnknownGasType = 210204
	// ErrCodeNoFuelVehicles 没有燃油车辆
	ErrCodeNoFuelVehicles = 210205
	// ErrCodeInvalidProvider 服务商单价无效
	ErrCodeInvalidProvider = 210206
)

// 持久化模块错误码 (210300-210399)
const (
	// ErrCodeRecordQueryFailed 查询记录失败
	ErrCodeRecordQueryFailed = 210301
	// ErrCodeRecordInsertFailed 写入记录失败
	ErrCodeRecordInsertFailed = 210302
	// ErrCodeSafeLimitSaveFailed 保存安全限额失败
	ErrCodeSafeLimitSaveFailed = 210303
)

// 回填任务模块错误码 (210400-210499)
const (
	// ErrCodeSweepLockFailed 获取回填锁失败
	ErrCodeSweepLockFailed = 210401
	// ErrCodeUnknownDomain 未知的回填领域
	ErrCodeUnknownDomain = 210402
)

// 计费配置模块错误码 (210500-210599)
const (
	// ErrCodeInvalidTariff 阶梯电价配置无效
	ErrCodeInvalidTariff = 210501
)

// 错误原因常量
const (
	ReasonMissingData      = "MISSING_DATA"
	ReasonPersistenceFault = "PERSISTENCE_FAULT"
	ReasonUserEnumeration  = "USER_ENUMERATION_FAILED"
	ReasonSweepLocked      = "SWEEP_LOCKED"
	ReasonUnknownDomain    = "UNKNOWN_DOMAIN"
	ReasonInvalidConfig    = "INVALID_CONFIG"
)

const metadataCode = "code"

func newError(e *kerrors.Error, code int) *kerrors.Error {
	return e.WithMetadata(map[string]string{metadataCode: strconv.Itoa(code)})
}

// MissingData 用户缺少模拟所需的数据，跳过该用户
func MissingData(code int, format string, args ...any) *kerrors.Error {
	return newError(kerrors.NotFound(ReasonMissingData, fmt.Sprintf(format, args...)), code)
}

// PersistenceFault 存储层不可用或拒绝写入
func PersistenceFault(code int, err error, format string, args ...any) *kerrors.Error {
	return newError(kerrors.InternalServer(ReasonPersistenceFault, fmt.Sprintf(format, args...)), code).WithCause(err)
}

// UserEnumeration 无法枚举用户，整个回填中止
func UserEnumeration(err error) *kerrors.Error {
	return newError(kerrors.ServiceUnavailable(ReasonUserEnumeration, "list users failed"), ErrCodeListUsersFailed).WithCause(err)
}

// SweepLocked 其他实例正在执行同一领域的回填
func SweepLocked(domain string, err error) *kerrors.Error {
	return newError(kerrors.Conflict(ReasonSweepLocked, "sweep "+domain+" is locked"), ErrCodeSweepLockFailed).WithCause(err)
}

// UnknownDomain 未知的回填领域
func UnknownDomain(domain string) *kerrors.Error {
	return newError(kerrors.BadRequest(ReasonUnknownDomain, "unknown domain "+strconv.Quote(domain)), ErrCodeUnknownDomain)
}

// InvalidConfig 配置无效
func InvalidConfig(code int, err error) *kerrors.Error {
	return newError(kerrors.InternalServer(ReasonInvalidConfig, err.Error()), code).WithCause(err)
}

func IsMissingData(err error) bool {
	return kerrors.Reason(err) == ReasonMissingData
}

func IsPersistenceFault(err error) bool {
	return kerrors.Reason(err) == ReasonPersistenceFault
}

func IsUserEnumeration(err error) bool {
	return kerrors.Reason(err) == ReasonUserEnumeration
}

// Code 返回业务错误码，非业务错误返回 0
func Code(err error) int {
	e := kerrors.FromError(err)
	if e == nil {
		return 0
	}
	code, _ := strconv.Atoi(e.Metadata[metadataCode])
	return code
}
