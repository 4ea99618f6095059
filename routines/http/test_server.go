package http

import (
	"context"
	"net"
	"time"

	"github.com/mogud/snowdi/core/host"
	"github.com/mogud/snowdi/core/injection"
	"github.com/mogud/snowdi/core/sync"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

const testServerTimeout = 10 * time.Second

// TestServer 在内存 listener 上运行 host，用于端到端测试
type TestServer struct {
	host     host.IHost
	listener *fasthttputil.InmemoryListener
	client   *fasthttp.Client
}

// NewTestServer 构建并启动 host，builder 必须已通过 AddServer 注册 http 服务
func NewTestServer(builder host.IBuilder) (*TestServer, error) {
	h := builder.Build()

	server, err := injection.TryGetRoutine[*Server](h.GetRoutineProvider())
	if err != nil {
		_ = h.Dispose()
		return nil, err
	}

	listener := fasthttputil.NewInmemoryListener()
	server.UseListener(listener)

	wg := sync.NewTimeoutWaitGroup()
	h.Start(context.Background(), wg)
	wg.WaitTimeout(testServerTimeout)

	return &TestServer{
		host:     h,
		listener: listener,
		client: &fasthttp.Client{
			Dial: func(addr string) (net.Conn, error) {
				return listener.Dial()
			},
		},
	}, nil
}

func (ss *TestServer) GetHost() host.IHost {
	return ss.host
}

func (ss *TestServer) Get(path string) (int, string, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	req.SetRequestURI("http://test" + path)
	req.Header.SetMethod(fasthttp.MethodGet)
	return ss.do(req)
}

func (ss *TestServer) Post(path string, contentType string, body []byte) (int, string, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	req.SetRequestURI("http://test" + path)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType(contentType)
	req.SetBody(body)
	return ss.do(req)
}

// Do 发送自定义请求，resp 由调用方管理
func (ss *TestServer) Do(req *fasthttp.Request, resp *fasthttp.Response) error {
	return ss.client.DoTimeout(req, resp, testServerTimeout)
}

func (ss *TestServer) do(req *fasthttp.Request) (int, string, error) {
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if err := ss.Do(req, resp); err != nil {
		return 0, "", err
	}
	return resp.StatusCode(), string(resp.Body()), nil
}

func (ss *TestServer) Close() error {
	wg := sync.NewTimeoutWaitGroup()
	ctx, cancel := context.WithTimeout(context.Background(), testServerTimeout)
	defer cancel()

	ss.host.Stop(ctx, wg)
	wg.WaitTimeout(testServerTimeout)

	err := ss.host.Dispose()
	_ = ss.listener.Close()
	return err
}
