package params

// Merge 递归合并：overlay 中的标量/序列覆盖 base 同路径的值，映射逐键合并，
// 未设置的值不覆盖（表示沿用缺省）。两个输入都不会被修改。
func Merge(base, overlay Tree) Tree {
	out := base.Clone()
	if out == nil {
		out = Tree{}
	}
	for key, ov := range overlay {
		if !ov.IsSet() {
			if _, ok := out[key]; !ok {
				out[key] = Unset()
			}
			continue
		}
		bv, ok := out[key]
		bt, baseIsTree := bv.Tree()
		ot, overlayIsTree := ov.Tree()
		if ok && baseIsTree && overlayIsTree {
			out[key] = Mapping(Merge(bt, ot))
			continue
		}
		out[key] = ov.clone()
	}
	return out
}

// Split 将参数树拆分为标量参数与映射（端口或变量属性修饰）
func Split(t Tree) (scalars, mappings Tree) {
	scalars, mappings = Tree{}, Tree{}
	for k, v := range t {
		if v.Kind() == KindMapping {
			mappings[k] = v
		} else {
			scalars[k] = v
		}
	}
	return scalars, mappings
}
