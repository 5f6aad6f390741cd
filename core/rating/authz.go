package rating

import "github.com/taabu/maoni/core/identity"

// Authorization predicates. All are pure: they decide on already-resolved
// entities so that lookup failures surface as NotFound at the call site,
// never coerced into an access denial.

// CanRate reports whether usr may rate the given learning object.
// Authors cannot rate their own objects.
func CanRate(usr identity.UserToken, obj LearningObject) bool {
	return obj.Author.Username != usr.Username
}

// CanEditRating reports whether usr may update the rating.
// Only the rating's author may; privilege never grants edit access.
func CanEditRating(usr identity.UserToken, r Rating) bool {
	return r.User.Username == usr.Username
}

// CanDeleteRating reports whether usr may delete the rating:
// the author, or any admin/editor.
func CanDeleteRating(usr identity.UserToken, r Rating) bool {
	return CanEditRating(usr, r) || usr.IsStaff()
}

// CanFlag reports whether usr may flag the rating.
// Self-flagging is forbidden.
func CanFlag(usr identity.UserToken, r Rating) bool {
	return r.User.Username != usr.Username
}

// CanRespond reports whether usr may respond to a rating on the given
// learning object: its author or a listed contributor.
func CanRespond(usr identity.UserToken, obj LearningObject) bool {
	return obj.Author.Username == usr.Username || obj.HasContributor(usr.Username)
}

// CanEditResponse reports whether usr may update or delete the response.
func CanEditResponse(usr identity.UserToken, resp Response) bool {
	return resp.User.Username == usr.Username
}
