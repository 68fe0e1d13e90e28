package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixUpload is the suffix for upload routes.
	RouteSuffixUpload = "/upload"
	// RouteSuffixPublish is the suffix for publish toggle routes.
	RouteSuffixPublish = "/publish"
	// RouteSuffixFeature is the suffix for featured toggle routes.
	RouteSuffixFeature = "/feature"
	// RouteSuffixActive is the suffix for active toggle routes.
	RouteSuffixActive = "/active"
	// RouteSuffixDelete is the suffix for delete routes.
	RouteSuffixDelete = "/delete"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"

	// RoutePartido is the party page route.
	RoutePartido = "/partido"
	// RouteCandidato is the candidate page route.
	RouteCandidato = "/candidato"
	// RoutePropuestas is the proposals page route.
	RoutePropuestas = "/propuestas"
	// RouteNoticias is the public news route.
	RouteNoticias = "/noticias"
	// RouteEventos is the public events route.
	RouteEventos = "/eventos"
	// RouteContacto is the contact page route.
	RouteContacto = "/contacto"
	// RoutePrivacidad is the privacy policy route.
	RoutePrivacidad = "/privacidad"
	// RouteTerminos is the terms page route.
	RouteTerminos = "/terminos"
	// RouteTransparencia is the transparency page route.
	RouteTransparencia = "/transparencia"

	// RouteLogin is the admin login route.
	RouteLogin = "/admin-login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"

	// RouteAdmin is the admin dashboard route.
	RouteAdmin = "/admin"
	// RouteAdminEventos is the eventos admin route.
	RouteAdminEventos = "/eventos"
	// RouteAdminNoticias is the noticias admin route.
	RouteAdminNoticias = "/noticias"
	// RouteAdminRedes is the social links admin route.
	RouteAdminRedes = "/redes-sociales"
	// RouteAdminMedia is the media library admin route.
	RouteAdminMedia = "/multimedia"
	// RouteAdminMensajes is the contact messages admin route.
	RouteAdminMensajes = "/mensajes"
	// RouteAdminConfiguracion is the site configuration admin route.
	RouteAdminConfiguracion = "/configuracion"
	// RouteAdminActividad is the activity log admin route.
	RouteAdminActividad = "/actividad"
	// RouteAdminPassword is the change-password admin route.
	RouteAdminPassword = "/password"
)

// Redirect target constants used after admin mutations.
const (
	redirectAdmin              = "/admin"
	redirectAdminEventos       = "/admin/eventos"
	redirectAdminNoticias      = "/admin/noticias"
	redirectAdminRedes         = "/admin/redes-sociales"
	redirectAdminMedia         = "/admin/multimedia"
	redirectAdminMensajes      = "/admin/mensajes"
	redirectAdminConfiguracion = "/admin/configuracion"
	redirectAdminPassword      = "/admin/password"
)

// Flash message types for session flash messages.
const (
	flashTypeSuccess = "success"
	flashTypeError   = "error"
	flashTypeWarning = "warning"
)
