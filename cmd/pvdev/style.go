// Copyright 2026 PromptVideo
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"

	"github.com/promptvideo/pvdev/pkg/doctor"
	"github.com/promptvideo/pvdev/pkg/util"
)

var theme = util.Theme

func printResult(r doctor.Result) {
	var mark string
	switch r.Status {
	case doctor.StatusOK:
		mark = util.OKStyle.Render("✓")
	case doctor.StatusWarn:
		mark = util.WarnStyle.Render("!")
	default:
		mark = util.FailStyle.Render("✗")
	}

	detail := r.Detail
	if r.Err != nil {
		detail = r.Err.Error()
	}
	if detail != "" {
		detail = " " + util.Dimmed(detail)
	}
	fmt.Printf("%s %s%s\n", mark, r.Name, detail)
}
