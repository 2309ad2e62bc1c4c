package device

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/ncarel/pipdash/apimodel"
	"github.com/ncarel/pipdash/internal/srv/config"
	"github.com/ncarel/pipdash/internal/srv/event"
	"github.com/ncarel/pipdash/internal/tool"
	"github.com/sirupsen/logrus"
)

// ErrUnknownScreen is returned over the api when the requested screen
// index does not exist.
var ErrUnknownScreen = errors.New("unknown screen index")

// ErrShutdownPending is returned over the api while the shutdown
// confirmation countdown is open; like the buttons, the api must not
// mutate state mid-countdown.
var ErrShutdownPending = errors.New("shutdown confirmation in progress")

// Api exposes a small HTTPS control surface. Every request is turned into
// an event with a result channel so all state mutation stays on the main
// loop goroutine.
type Api struct {
	eventChannel chan event.ApiEvent

	router    *mux.Router
	apiRouter *mux.Router
	server    *http.Server

	config *config.ServerConfig
}

func NewApi(config *config.ServerConfig) *Api {
	api := Api{
		config:       config,
		eventChannel: make(chan event.ApiEvent),
	}

	api.router = mux.NewRouter().StrictSlash(false)

	api.apiRouter = api.router.PathPrefix("/api").Subrouter()
	api.apiRouter.NotFoundHandler = http.HandlerFunc(ErrorNotFoundAction)
	api.apiRouter.MethodNotAllowedHandler = http.HandlerFunc(ErrorMethodNotAllowedAction)

	// Auth middleware
	api.apiRouter.Use(
		func(handler http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer func() {
					if rec := recover(); rec != nil {
						logrus.Warningf("recovered from panic : [%v] - stack trace : \n [%s]", rec, debug.Stack())
						strMessage := fmt.Sprintf("%v", rec)
						GlobalErrorAction(w, strMessage, http.StatusInternalServerError)
					}
				}()

				// Check API Key
				apiKey := r.Header.Get("x-api-key")
				if apiKey != config.ServerParam.ApiParam.ApiKey {
					ErrorStatusAction(w, r, http.StatusForbidden)
					return
				}

				logrus.Debugf("PATH: %s %s", r.Host, r.URL.Path)

				handler.ServeHTTP(w, r)
			})
		})

	// API Routes
	api.apiRouter.HandleFunc("/is_alive",
		func(w http.ResponseWriter, r *http.Request) {
			ErrorStatusAction(w, r, http.StatusOK)
		}).Methods("GET")
	api.apiRouter.HandleFunc("/screen/{index}",
		func(w http.ResponseWriter, r *http.Request) {
			index, ok := pathInt(w, r, "index")
			if !ok {
				return
			}
			api.forward(w, r, event.ApiEventScreenSelectData{ScreenIndex: index})
		}).Methods("POST")
	api.apiRouter.HandleFunc("/radio/play/{track}",
		func(w http.ResponseWriter, r *http.Request) {
			track, ok := pathInt(w, r, "track")
			if !ok {
				return
			}
			api.forward(w, r, event.ApiEventRadioPlayData{TrackIndex: track})
		}).Methods("POST")
	api.apiRouter.HandleFunc("/radio/stop",
		func(w http.ResponseWriter, r *http.Request) {
			api.forward(w, r, event.ApiEventRadioStopData{})
		}).Methods("POST")

	// Tell the browser that it's OK for JS to communicate with the server
	headersOk := handlers.AllowedHeaders([]string{"Authorization"})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})

	api.server = &http.Server{
		Addr:         ":" + strconv.FormatInt(config.ServerParam.ApiParam.SslPort, 10),
		Handler:      handlers.CompressHandler(handlers.CORS(originsOk, headersOk, methodsOk)(api.router)),
		ReadTimeout:  time.Second * 240,
		WriteTimeout: time.Second * 240,
		IdleTimeout:  time.Second * 240,
	}

	return &api
}

func pathInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		ErrorStatusAction(w, r, http.StatusBadRequest)
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		ErrorStatusAction(w, r, http.StatusBadRequest)
		return 0, false
	}
	return value, true
}

func (d *Api) forward(w http.ResponseWriter, r *http.Request, data interface{}) {
	result := make(chan error)
	d.eventChannel <- event.ApiEvent{Result: result, Data: data}
	if err := <-result; err == nil {
		ErrorStatusAction(w, r, http.StatusOK)
	} else {
		GlobalErrorAction(w, err.Error(), http.StatusForbidden)
	}
}

func (d *Api) Start() {
	logrus.Infof("Start api device")

	existServerCert, err := tool.IsFileExists(d.selfSignedCertFilename())
	if err != nil {
		logrus.Fatalf("Unable to access %s: %v\n", d.selfSignedCertFilename(), err)
	}

	existServerKey, err := tool.IsFileExists(d.selfSignedKeyFilename())
	if err != nil {
		logrus.Fatalf("Unable to access %s: %v\n", d.selfSignedKeyFilename(), err)
	}

	if !existServerCert || !existServerKey {
		logrus.Info("Generating self-signed cert and key files")
		err = tool.GenerateTlsCertificate(
			"pipdash",
			"pipdash server",
			d.selfSignedKeyFilename(),
			d.selfSignedCertFilename(),
			[]string{"localhost"})
		if err != nil {
			logrus.Fatalf("Unable to generate cert and key files : %v\n", err)
		}
		logrus.Info("Self-signed cert and key files generated")
	}

	// Launch https server
	go func() {
		err := d.server.ListenAndServeTLS(d.selfSignedCertFilename(), d.selfSignedKeyFilename())
		if err != nil && err.Error() != "http: Server closed" {
			logrus.Error(err)
		}
	}()
}

func (d *Api) StopSendingEvent() {
	logrus.Infof("Stop api device")
	d.server.Shutdown(context.Background())
}

func (d *Api) EventChannel() chan event.ApiEvent {
	return d.eventChannel
}

func (d *Api) selfSignedKeyFilename() string {
	return filepath.Join(d.config.ConfigDir, "key.pem")
}

func (d *Api) selfSignedCertFilename() string {
	return filepath.Join(d.config.ConfigDir, "cert.pem")
}

func ErrorNotFoundAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusNotFound)
}

func ErrorMethodNotAllowedAction(w http.ResponseWriter, r *http.Request) {
	ErrorStatusAction(w, r, http.StatusMethodNotAllowed)
}

func ErrorStatusAction(w http.ResponseWriter, r *http.Request, status int) {
	ErrorMessageAction(w, "", status)
}

func GlobalErrorAction(w http.ResponseWriter, message string, status int) {
	ErrorMessageAction(w, message, status)
}

func ErrorMessageAction(w http.ResponseWriter, title string, status int) {
	errorMessage := &apimodel.ErrorMessage{
		ErrStatusCode: status,
		ErrMessage:    title,
	}

	if title == "" {
		switch status {
		case http.StatusOK:
			errorMessage.ErrMessage = "Ok"
		case http.StatusNotFound:
			errorMessage.ErrMessage = "Page not found"
		case http.StatusMethodNotAllowed:
			errorMessage.ErrMessage = "Method not allowed"
		case http.StatusForbidden:
			errorMessage.ErrMessage = "Forbidden"
		case http.StatusServiceUnavailable:
			errorMessage.ErrMessage = "Service unavailable"
		case http.StatusBadRequest:
			errorMessage.ErrMessage = "Bad request"
		default:
			errorMessage.ErrMessage = "Internal error"
		}
	}

	errorMessage.Send(w)
}
