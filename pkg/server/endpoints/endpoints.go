package endpoints

import "github.com/doodlesbykumbi/idm-admin/pkg/server"

// RegisterAll registers every endpoint of the admin API on s
func RegisterAll(s *server.Server) {
	RegisterStatusEndpoints(s)
	RegisterDocsEndpoint(s)
	RegisterRegistrationEndpoint(s)
	RegisterRolesEndpoints(s)
	RegisterUsersEndpoints(s)
	RegisterLogsEndpoint(s)
}
