package validation

import "github.com/asaskevich/govalidator"

const (
	MsgNotAllowed = "%q is not allowed"
	MsgEmpty      = "%s cannot be empty"
	MsgMinOne     = "At least one field must be updated"

	MsgNameRequired = "Name is required"
	MsgNameType     = "Name must be a string"
	MsgNameMin      = "Name must be at least 3 characters"

	MsgEmailRequired = "Email is required"
	MsgEmailType     = "Email must be a string"
	MsgEmailInvalid  = "Please enter a valid email address"

	MsgPasswordRequired = "Password is required"
	MsgPasswordType     = "Password must be a string"
	MsgPasswordMin      = "Password must be at least 6 characters"

	MsgPasswordUpdateMin = "Password must be at least 3 characters"
	MsgPasswordMax       = "Password must be at most 72 bytes"

	MsgTitleRequired = "Title is required"
	MsgTitleType     = "Title must be a string"
	MsgTitleMin      = "Title must be at least 3 characters"
	MsgTitleMax      = "Title must be at most 100 characters"

	MsgContentRequired = "Content is required"
	MsgContentType     = "Content must be a string"
	MsgContentMin      = "Content must be at least 10 characters"

	MsgTagsRequired = "Tags are required"
	MsgTagsType     = "Tags must be an array"
	MsgTagsMin      = "At least one tag is required"
	MsgTagsItem     = "Tags must be non-empty strings"

	MsgAuthorRequired = "Author is required"
	MsgAuthorType     = "Author must be a string"
	MsgAuthorInvalid  = "Invalid author ID format"
)

// PasswordMaxBytes is the longest password bcrypt accepts.
const PasswordMaxBytes = 72

var (
	nameRule = Rule{
		Field: "name", Type: String, Min: 3,
		RequiredMsg: MsgNameRequired, TypeMsg: MsgNameType, MinMsg: MsgNameMin,
	}
	emailRule = Rule{
		Field: "email", Type: String, Format: govalidator.IsEmail,
		RequiredMsg: MsgEmailRequired, TypeMsg: MsgEmailType, FormatMsg: MsgEmailInvalid,
	}
	passwordRule = Rule{
		Field: "password", Type: String, Min: 6, MaxBytes: PasswordMaxBytes,
		RequiredMsg: MsgPasswordRequired, TypeMsg: MsgPasswordType, MinMsg: MsgPasswordMin, MaxMsg: MsgPasswordMax,
	}
	updatePasswordRule = Rule{
		Field: "password", Type: String, Min: 3, MaxBytes: PasswordMaxBytes,
		RequiredMsg: MsgPasswordRequired, TypeMsg: MsgPasswordType, MinMsg: MsgPasswordUpdateMin, MaxMsg: MsgPasswordMax,
	}
	titleRule = Rule{
		Field: "title", Type: String, Min: 3, Max: 100,
		RequiredMsg: MsgTitleRequired, TypeMsg: MsgTitleType, MinMsg: MsgTitleMin, MaxMsg: MsgTitleMax,
	}
	contentRule = Rule{
		Field: "content", Type: String, Min: 10,
		RequiredMsg: MsgContentRequired, TypeMsg: MsgContentType, MinMsg: MsgContentMin,
	}
	tagsRule = Rule{
		Field: "tags", Type: StringArray, Min: 1,
		RequiredMsg: MsgTagsRequired, TypeMsg: MsgTagsType, MinMsg: MsgTagsMin, ItemMsg: MsgTagsItem,
	}
	authorRule = Rule{
		Field: "author", Type: String, Format: govalidator.IsMongoID,
		RequiredMsg: MsgAuthorRequired, TypeMsg: MsgAuthorType, FormatMsg: MsgAuthorInvalid,
	}
)

func required(r Rule) Rule {
	r.Required = true
	return r
}

// Schemas for the request bodies accepted by the API.
var (
	CreateUser = Schema{
		Name:  "createUser",
		Rules: []Rule{required(nameRule), required(emailRule), required(passwordRule)},
	}

	// UpdateUser accepts shorter passwords than CreateUser.
	UpdateUser = Schema{
		Name:         "updateUser",
		Rules:        []Rule{nameRule, emailRule, updatePasswordRule},
		MinFields:    1,
		MinFieldsMsg: MsgMinOne,
	}

	CreatePost = Schema{
		Name:  "createPost",
		Rules: []Rule{required(titleRule), required(contentRule), required(tagsRule), required(authorRule)},
	}

	UpdatePost = Schema{
		Name:         "updatePost",
		Rules:        []Rule{titleRule, contentRule, tagsRule},
		MinFields:    1,
		MinFieldsMsg: MsgMinOne,
	}
)
