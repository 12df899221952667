// Package all 注册全部元件类型
package all

import (
	_ "heatnet/element/electricity"
	_ "heatnet/element/gas"
	_ "heatnet/element/heat"
)
