// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/mdrews/courselens/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// SiteName is shown in page chrome and exports.
const SiteName = "CourseLens"

// BaseVM contains the fields every page template needs. Embed it in
// feature view models:
//
//	type pageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
}

// NewBaseVM builds the BaseVM for a page. backDefault is used when the
// request carries no usable return target.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	role, name, _, signedIn := authz.UserCtx(r)

	return BaseVM{
		SiteName:    SiteName,
		IsLoggedIn:  signedIn,
		Role:        role,
		UserName:    name,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
	}
}
