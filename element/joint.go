package element

import (
	"fmt"

	"heatnet/params"
	"heatnet/types"
)

// JointDefaults 节点元件缺省参数
func JointDefaults() params.Tree {
	return params.Tree{"n": params.Scalar(2)}
}

// JointPort 节点第 i 个端口名（从 1 开始）
func JointPort(prefix string, i int) string {
	return fmt.Sprintf("%sConn[%d]", prefix, i)
}

// BuildJoint 声明 n 个未定向端口；守恒方程由装配器按连接方向生成
func (b *Builder) BuildJoint(prefix string, kind PortKind) {
	n := b.Int("n")
	if b.err == nil && n < 1 {
		b.Fail("n", "节点至少需要一个端口")
	}
	for i := 1; i <= n && b.err == nil; i++ {
		b.Port(JointPort(prefix, i), kind, types.DirectionFree)
	}
}
