/*
Package coffeesdk is a Go client for the coffeeshop drinks API.

# Client vs Session

Public endpoints (health checks and the short drinks menu) live on SDKClient.
Endpoints guarded by a permission live on Session, which carries a bearer
token minted by the identity provider:

	client := coffeesdk.NewSDKClient("https://coffee.example.com")

	drinks, err := client.ListDrinks(ctx)

	session, err := client.NewSession(accessToken)
	detail, err := session.ListDrinkDetails(ctx)

# Permissions

Each guarded endpoint needs one permission in the token's "permissions" claim:

  - get:drinks-detail: GET /drinks-detail
  - post:drinks: POST /drinks
  - patch:drinks: PATCH /drinks/{id}
  - delete:drinks: DELETE /drinks/{id}

A Session reads the permissions from its token (without verifying it) and
fails fast with ErrMissingPermission when a call cannot succeed. Set
CheckPermissions to false on the client to always let the server decide.

# Errors

Non-2xx responses become *APIError. Authorization failures carry the machine
readable Code (for example "token_expired" or "permission_not_granted");
application errors such as 404 or 422 leave Code empty.

	_, err := session.DeleteDrink(ctx, 42)
	var apiErr *coffeesdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		// already gone
	}
*/
package coffeesdk
