package upload

import (
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/klauspost/compress/gzip"
	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/logging"
	"github.com/mogud/snowdi/core/option"
	snowhttp "github.com/mogud/snowdi/routines/http"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

const (
	formFieldName  = "data"
	maxMemoryBytes = 32 << 20
)

var routes = []struct {
	method string
	path   string
}{
	{http.MethodGet, "/"},
	{http.MethodGet, "/Home/Index"},
	{http.MethodGet, "/Home/About"},
	{http.MethodGet, "/Home/Contact"},
	{http.MethodGet, "/Home/Error"},
	{http.MethodPost, "/Home/Upload"},
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h2>{{.Title}}</h2>
{{if .Message}}<h3>{{.Message}}</h3>{{end}}
{{if .Form}}<form method="post" enctype="multipart/form-data" action="/Home/Upload">
<input type="file" name="data" />
<input type="submit" value="Upload" />
</form>{{end}}
{{if .RequestID}}<p><strong>Request ID:</strong> <code>{{.RequestID}}</code></p>{{end}}
</body>
</html>
`))

type page struct {
	Title     string
	Message   string
	Form      bool
	RequestID string
}

type Option struct {
	Gzip bool `snow:"Gzip"` // 以 gzip 压缩保存上传文件，文件名追加 .gz
}

var _ http.Handler = (*HomeController)(nil)

// HomeController 每个请求一个实例，上传的文件保存在内容根目录下
type HomeController struct {
	opt         *Option
	logger      logging.ILogger
	environment host.IHostEnvironment
	scope       injection.IRoutineScope
	router      chi.Router
}

func (ss *HomeController) Construct(
	opt *option.Option[*Option],
	logger *logging.Logger[HomeController],
	environment host.IHostEnvironment,
	scope injection.IRoutineScope,
) {
	ss.opt = opt.Get()
	ss.environment = environment
	ss.scope = scope
	ss.logger = logger.Get(func(data *logging.LogData) {
		data.Name = "HomeController"
		data.ID = scope.GetID()
	})

	router := chi.NewRouter()
	router.Get("/", ss.Index)
	router.Get("/Home/Index", ss.Index)
	router.Get("/Home/About", ss.About)
	router.Get("/Home/Contact", ss.Contact)
	router.Get("/Home/Error", ss.Error)
	router.Post("/Home/Upload", ss.Upload)
	ss.router = router
}

func (ss *HomeController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ss.router.ServeHTTP(w, r)
}

func (ss *HomeController) Index(w http.ResponseWriter, _ *http.Request) {
	ss.render(w, http.StatusOK, &page{Title: "Home Page", Form: true})
}

func (ss *HomeController) About(w http.ResponseWriter, _ *http.Request) {
	ss.render(w, http.StatusOK, &page{Title: "About", Message: "Your application description page."})
}

func (ss *HomeController) Contact(w http.ResponseWriter, _ *http.Request) {
	ss.render(w, http.StatusOK, &page{Title: "Contact", Message: "Your contact page."})
}

func (ss *HomeController) Error(w http.ResponseWriter, _ *http.Request) {
	ss.render(w, http.StatusOK, &page{Title: "Error", Message: "An error occurred while processing your request.", RequestID: ss.scope.GetID()})
}

func (ss *HomeController) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMemoryBytes); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile(formFieldName)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	name, ok := uploadFileName(header.Filename)
	if !ok {
		http.Error(w, fmt.Sprintf("invalid file name: %q", header.Filename), http.StatusBadRequest)
		return
	}

	path, err := ss.save(name, file)
	if err != nil {
		ss.logger.Errorf("save upload file failed: %v", err)
		http.Error(w, "save upload file failed", http.StatusInternalServerError)
		return
	}

	ss.logger.Infof("upload file saved: %v", path)
	http.Redirect(w, r, "/", http.StatusFound)
}

// uploadFileName 只保留最后一级文件名，拒绝指向目录的名字
func uploadFileName(raw string) (string, bool) {
	name := filepath.Base(raw)
	switch name {
	case "", ".", "..", string(filepath.Separator):
		return "", false
	}
	return name, true
}

func (ss *HomeController) save(name string, src io.Reader) (path string, err error) {
	path = filepath.Join(ss.environment.GetContentRootPath(), name)
	if ss.opt.Gzip {
		path += ".gz"
	}

	output, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	if !ss.opt.Gzip {
		_, err = io.Copy(output, src)
		return path, err
	}

	zw := gzip.NewWriter(output)
	zw.Name = name
	if _, err = io.Copy(zw, src); err != nil {
		_ = zw.Close()
		return "", err
	}
	return path, zw.Close()
}

func (ss *HomeController) render(w http.ResponseWriter, status int, p *page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, p); err != nil {
		ss.logger.Errorf("render %v failed: %v", p.Title, err)
	}
}

// AddHomeController 注册控制器，需在 http.AddServer 的 configure 中调用 MapHomeController 挂载路由
func AddHomeController(builder host.IBuilder) {
	host.AddOption[*Option](builder, "Upload")
	host.AddScoped[*HomeController](builder)
}

// MapHomeController 将控制器的路由挂载到服务上，每个请求从请求 scope 中获取控制器
func MapHomeController(server *snowhttp.Server) {
	handler := func(ctx *fasthttp.RequestCtx) {
		controller, err := snowhttp.GetRequestRoutine[*HomeController](ctx)
		if err != nil {
			ctx.Error(fmt.Sprintf("resolve controller: %v", err), fasthttp.StatusInternalServerError)
			return
		}
		fasthttpadaptor.NewFastHTTPHandler(controller)(ctx)
	}

	for _, route := range routes {
		server.HandleRequestMethod(route.path, route.method, handler)
	}
}
