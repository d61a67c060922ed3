// Package all registers every built-in extension.
//
//	import _ "github.com/leapstack-labs/vela/pkg/extensions/all"
package all

import (
	_ "github.com/leapstack-labs/vela/pkg/extensions/datetime"  // date
	_ "github.com/leapstack-labs/vela/pkg/extensions/httpx"     // http
	_ "github.com/leapstack-labs/vela/pkg/extensions/input"     // input
	_ "github.com/leapstack-labs/vela/pkg/extensions/mathx"     // math
	_ "github.com/leapstack-labs/vela/pkg/extensions/starlarkx" // starlark
	_ "github.com/leapstack-labs/vela/pkg/extensions/store"     // store
	_ "github.com/leapstack-labs/vela/pkg/extensions/strs"      // strs
	_ "github.com/leapstack-labs/vela/pkg/extensions/utils"     // utils
)

