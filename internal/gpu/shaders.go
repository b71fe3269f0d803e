package gpu

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed shaders/life_step.wgsl
var lifeStepShaderSource string

//go:embed shaders/cell_draw.wgsl
var cellDrawShaderSource string

// defaultWorkgroupAttr is the workgroup_size attribute as written in the
// embedded transition kernel.
const defaultWorkgroupAttr = "@workgroup_size(8, 8)"

// stepShaderFor returns the transition kernel source for the given
// workgroup tile edge. WGSL workgroup sizes are compile-time constants, so
// non-default tiles are produced by rewriting the attribute before the
// module is compiled.
func stepShaderFor(workgroup int) string {
	if workgroup == 8 {
		return lifeStepShaderSource
	}
	attr := fmt.Sprintf("@workgroup_size(%d, %d)", workgroup, workgroup)
	return strings.Replace(lifeStepShaderSource, defaultWorkgroupAttr, attr, 1)
}
