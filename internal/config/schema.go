package config

import "github.com/getkin/kin-openapi/openapi3"

// secretExtension marks settings that must never be logged or echoed.
const secretExtension = "x-secret"

func secretString(description string) *openapi3.Schema {
	s := openapi3.NewStringSchema()
	s.Description = description
	s.Extensions = map[string]any{secretExtension: true}
	return s
}

func describedString(description string) *openapi3.Schema {
	s := openapi3.NewStringSchema()
	s.Description = description
	return s
}

// SettingsSchema is the JSON schema of the tap's settings. It drives config
// validation and is printed verbatim by the `about` command so orchestrators
// can introspect the tap.
func SettingsSchema() *openapi3.Schema {
	domains := openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	domains.Description = "Domain names to query (e.g., ['data.cityofchicago.org'])"

	pageLimit := openapi3.NewIntegerSchema().WithMin(1)
	pageLimit.Description = "Maximum records requested per SODA page"

	timeout := openapi3.NewIntegerSchema().WithMin(1)
	timeout.Description = "HTTP request timeout in seconds"

	schema := openapi3.NewObjectSchema()
	schema.Properties = openapi3.Schemas{
		"domains":                 openapi3.NewSchemaRef("", domains),
		"api_key_id":              openapi3.NewSchemaRef("", secretString("The API Key ID for authentication")),
		"api_key_secret":          openapi3.NewSchemaRef("", secretString("The API Key Secret for authentication")),
		"app_token":               openapi3.NewSchemaRef("", secretString("Optional Socrata App Token for higher rate limits")),
		"secret_token":            openapi3.NewSchemaRef("", secretString("Optional Socrata Secret Token paired with App Token")),
		"user_agent":              openapi3.NewSchemaRef("", describedString("Optional User-Agent string to use for requests")),
		"page_limit":              openapi3.NewSchemaRef("", pageLimit),
		"request_timeout_seconds": openapi3.NewSchemaRef("", timeout),
		"state_backend":           openapi3.NewSchemaRef("", describedString("Optional state mirror, e.g. redis://localhost:6379/0")),
		"metrics_addr":            openapi3.NewSchemaRef("", describedString("Optional address for the health/metrics listener, e.g. :2112")),
	}
	return schema
}

// SecretSettings lists the setting names flagged as secret in the schema.
func SecretSettings() []string {
	var secrets []string
	for name, ref := range SettingsSchema().Properties {
		if ref.Value == nil {
			continue
		}
		if v, ok := ref.Value.Extensions[secretExtension].(bool); ok && v {
			secrets = append(secrets, name)
		}
	}
	return secrets
}
