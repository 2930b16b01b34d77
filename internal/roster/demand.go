package roster

import (
	"math/rand"
	"sync"
	"time"
)

// Signal 外生需求修正项（如天气），实现必须非阻塞且返回非负整数
type Signal interface {
	Adjustment(venueID string, date Date) int
}

// FixedSignal 固定修正值，用于测试或关闭随机项
type FixedSignal int

func (f FixedSignal) Adjustment(string, Date) int { return int(f) }

// WeatherSignal 从有限离散集合中随机抽取修正值
type WeatherSignal struct {
	mu      sync.Mutex
	rng     *rand.Rand
	choices []int
}

// NewWeatherSignal 创建天气修正项；choices 为空时恒为 0，负值按 0 处理
func NewWeatherSignal(choices []int, seed int64) *WeatherSignal {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cs := make([]int, 0, len(choices))
	for _, c := range choices {
		if c < 0 {
			c = 0
		}
		cs = append(cs, c)
	}
	return &WeatherSignal{rng: rand.New(rand.NewSource(seed)), choices: cs}
}

func (w *WeatherSignal) Adjustment(string, Date) int {
	if len(w.choices) == 0 {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.choices[w.rng.Intn(len(w.choices))]
}

// DemandEstimator 需求估算：星期基数 + 预订人数 / CoversPerStaff + 外生修正
type DemandEstimator struct {
	policy Policy
	signal Signal
}

// NewDemandEstimator 创建估算器；signal 为 nil 时修正项为 0
func NewDemandEstimator(policy Policy, signal Signal) *DemandEstimator {
	if signal == nil {
		signal = FixedSignal(0)
	}
	return &DemandEstimator{policy: policy, signal: signal}
}

// Estimate 纯函数（除外生项外）：返回非负需求人数
func (e *DemandEstimator) Estimate(venueID string, date Date, reservations int) int {
	base := e.policy.WeekdayBase
	if e.policy.isWeekend(date) {
		base = e.policy.WeekendBase
	}
	if reservations < 0 {
		reservations = 0
	}
	adj := e.signal.Adjustment(venueID, date)
	if adj < 0 {
		adj = 0
	}
	demand := base + reservations/e.policy.CoversPerStaff + adj
	if demand < 0 {
		return 0
	}
	return demand
}
